package api

import (
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/export"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

// Controller serves the poll API. Every mutating handler persists through
// the service first and only then tells the hub.
type Controller struct {
	polls    *services.PollService
	hub      *realtime.Hub
	exporter export.Exporter

	sendBuffer   int
	pingInterval time.Duration
}

func NewController(polls *services.PollService, hub *realtime.Hub, exporter export.Exporter) *Controller {
	ctl := &Controller{
		polls:        polls,
		hub:          hub,
		exporter:     exporter,
		sendBuffer:   16,
		pingInterval: 15 * time.Second,
	}
	if n := viper.GetInt("realtime.send_buffer"); n > 0 {
		ctl.sendBuffer = n
	}
	if viper.IsSet("realtime.ping_interval") {
		ctl.pingInterval = viper.GetDuration("realtime.ping_interval")
	}
	return ctl
}

func (v *Controller) MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		api.Get("/health", v.getHealth)

		polls := api.Group("/polls")
		{
			polls.Get("/", v.listPolls)
			polls.Post("/", v.createPoll)
			polls.Get("/code/:code", v.getPollByCode)
			polls.Get("/:pollId", v.getPoll)
			polls.Put("/:pollId", v.updatePoll)
			polls.Patch("/:pollId/status", v.updatePollStatus)
			polls.Delete("/:pollId", v.deletePoll)

			polls.Post("/:pollId/questions", v.addQuestion)
			polls.Put("/:pollId/questions/:questionId", v.updateQuestion)
			polls.Delete("/:pollId/questions/:questionId", v.deleteQuestion)

			polls.Post("/:pollId/responses", v.submitResponse)
			polls.Get("/:pollId/responses", v.listResponses)
			polls.Get("/:pollId/responses/:responseId", v.getResponse)
			polls.Get("/:pollId/results", v.getResults)
			polls.Get("/:pollId/export", v.exportResults)
		}
	}

	ws := app.Group("/ws", v.upgradeWebsocket)
	{
		ws.Get("/", v.listenWebsocket(""))
		ws.Get("/host/:pollId", v.listenWebsocket(realtime.RoleHost))
		ws.Get("/participant/:pollId", v.listenWebsocket(realtime.RoleParticipant))
	}
}

package admin

import (
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	polls *services.PollService
	hub   *realtime.Hub
	token string
}

func NewController(polls *services.PollService, hub *realtime.Hub, token string) *Controller {
	return &Controller{polls: polls, hub: hub, token: token}
}

func (v *Controller) MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, v.ensureAdmin)
	{
		admin.Post("/sweep", v.adminTriggerExpirySweep)
		admin.Get("/connections", v.adminListConnections)
	}
}

package api

import (
	pkg "git.solsynth.dev/hypernet/quickpoll/pkg/internal"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) getHealth(c *fiber.Ctx) error {
	kind := v.polls.Repository().Kind()

	stats, err := v.polls.Stats(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"version": pkg.AppVersion,
			"storage": kind,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":          "healthy",
		"version":         pkg.AppVersion,
		"storage":         kind,
		"polls_count":     stats.Polls,
		"responses_count": stats.Responses,
		"connections":     v.hub.Registry().Len(),
	})
}

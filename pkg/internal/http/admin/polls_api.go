package admin

import (
	"crypto/subtle"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

const TokenHeader = "X-Admin-Token"

// ensureAdmin lets a request through only with the configured admin token.
// Without a configured token the admin routes are closed.
func (v *Controller) ensureAdmin(c *fiber.Ctx) error {
	given := c.Get(TokenHeader)
	if len(v.token) == 0 || subtle.ConstantTimeCompare([]byte(given), []byte(v.token)) != 1 {
		return models.ErrForbidden
	}
	return c.Next()
}

func (v *Controller) adminTriggerExpirySweep(c *fiber.Ctx) error {
	count, err := v.polls.FinishExpired(c.UserContext(), func(poll models.Poll, previous models.PollStatus) {
		v.hub.StatusChanged(poll.ID, previous, poll.Status)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"finished": count})
}

func (v *Controller) adminListConnections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"connections": v.hub.Registry().Len()})
}

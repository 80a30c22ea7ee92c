package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

const SessionHeader = "X-Session-ID"

const maxSessionLength = 128

// GetSession returns the opaque browser session of the caller, which may be
// empty. The value is never interpreted, only compared.
func GetSession(c *fiber.Ctx) (string, error) {
	session := strings.TrimSpace(c.Get(SessionHeader))
	if len(session) > maxSessionLength {
		return "", models.NewValidationError(SessionHeader, "must be at most %d characters", maxSessionLength)
	}
	return session, nil
}

package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("body", "%s", err.Error())
	} else if err := validation.Struct(out); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return models.NewValidationError(fields[0].Namespace(), "failed on the '%s' rule", fields[0].Tag())
		}
		return models.NewValidationError("body", "%s", err.Error())
	}
	return nil
}

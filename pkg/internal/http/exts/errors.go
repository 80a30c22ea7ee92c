package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type ErrorPayload struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// TranslateError maps an error onto its status code and client payload.
func TranslateError(err error) (int, ErrorPayload) {
	var (
		fiberErr      *fiber.Error
		validationErr *models.ValidationError
		transitionErr *models.TransitionError
		notActiveErr  *models.NotActiveError
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, ErrorPayload{
			Error:   "validation_error",
			Message: err.Error(),
			Detail:  map[string]any{"field": validationErr.Field, "reason": validationErr.Reason},
		}
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest, ErrorPayload{Error: "validation_error", Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, ErrorPayload{Error: "not_found", Message: err.Error()}
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden, ErrorPayload{Error: "forbidden", Message: err.Error()}
	case errors.As(err, &transitionErr):
		return fiber.StatusConflict, ErrorPayload{
			Error:   "invalid_transition",
			Message: err.Error(),
			Detail:  map[string]any{"current": transitionErr.Current, "attempted": transitionErr.Attempted},
		}
	case errors.Is(err, models.ErrQuestionsLocked):
		return fiber.StatusConflict, ErrorPayload{Error: "questions_locked", Message: err.Error()}
	case errors.Is(err, models.ErrPollLocked):
		return fiber.StatusConflict, ErrorPayload{Error: "poll_locked", Message: err.Error()}
	case errors.Is(err, models.ErrAlreadyResponded):
		return fiber.StatusConflict, ErrorPayload{Error: "already_responded", Message: err.Error()}
	case errors.As(err, &notActiveErr):
		return fiber.StatusLocked, ErrorPayload{
			Error:   "poll_not_active",
			Message: err.Error(),
			Detail:  map[string]any{"status": notActiveErr.Status},
		}
	case errors.Is(err, models.ErrPollExpired):
		return fiber.StatusGone, ErrorPayload{Error: "poll_expired", Message: err.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorPayload{Error: "http_error", Message: fiberErr.Message}
	}

	return fiber.StatusInternalServerError, ErrorPayload{Error: "internal_error", Message: "internal server error"}
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	status, payload := TranslateError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}
	return c.Status(status).JSON(payload)
}

package api

import (
	"fmt"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func (v *Controller) submitResponse(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data struct {
		Answers         []models.Answer `json:"answers" validate:"required"`
		ParticipantName *string         `json:"participant_name" validate:"omitempty,max=100"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	pollId := c.Params("pollId")
	resp, err := v.polls.Submit(c.UserContext(), pollId, services.SubmitInput{
		Answers:         data.Answers,
		ParticipantName: data.ParticipantName,
		SessionID:       session,
	})
	if err != nil {
		return err
	}

	total, err := v.polls.CountResponses(c.UserContext(), pollId)
	if err != nil {
		log.Warn().Err(err).Str("poll", pollId).Msg("Unable to count responses for broadcast...")
	}
	v.hub.ResponseSubmitted(pollId, resp.ID, total)

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (v *Controller) listResponses(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	responses, err := v.polls.ListResponses(c.UserContext(), c.Params("pollId"), session)
	if err != nil {
		return err
	}

	return c.JSON(responses)
}

func (v *Controller) getResponse(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	resp, err := v.polls.GetResponse(c.UserContext(), c.Params("pollId"), c.Params("responseId"), session)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (v *Controller) getResults(c *fiber.Ctx) error {
	results, err := v.polls.Results(c.UserContext(), c.Params("pollId"))
	if err != nil {
		return err
	}

	return c.JSON(results)
}

func (v *Controller) exportResults(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	pollId := c.Params("pollId")

	poll, err := v.polls.GetOwned(ctx, pollId, session)
	if err != nil {
		return err
	}
	responses, err := v.polls.ListResponses(ctx, pollId, session)
	if err != nil {
		return err
	}
	results, err := v.polls.Results(ctx, pollId)
	if err != nil {
		return err
	}

	data, err := v.exporter.Export(poll, responses, results)
	if err != nil {
		return fmt.Errorf("unable to export poll %s: %w", pollId, err)
	}

	c.Set(fiber.HeaderContentType, v.exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="poll-%s.%s"`, poll.Code, v.exporter.Extension()))
	return c.Send(data)
}

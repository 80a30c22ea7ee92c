package api

import (
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) listPolls(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	polls, err := v.polls.ListOwned(c.UserContext(), session)
	if err != nil {
		return err
	}

	return c.JSON(polls)
}

func (v *Controller) getPoll(c *fiber.Ctx) error {
	poll, err := v.polls.Get(c.UserContext(), c.Params("pollId"))
	if err != nil {
		return err
	}

	return c.JSON(poll)
}

func (v *Controller) getPollByCode(c *fiber.Ctx) error {
	poll, err := v.polls.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}

	return c.JSON(poll.Public())
}

func (v *Controller) createPoll(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data struct {
		Title       string                   `json:"title" validate:"required,max=256"`
		Description *string                  `json:"description" validate:"omitempty,max=4096"`
		ExpiresAt   *time.Time               `json:"expires_at"`
		Questions   []services.QuestionInput `json:"questions" validate:"required,min=1,max=100,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, err := v.polls.Create(c.UserContext(), services.CreatePollInput{
		Title:        data.Title,
		Description:  data.Description,
		ExpiresAt:    data.ExpiresAt,
		Questions:    data.Questions,
		OwnerSession: session,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

func (v *Controller) updatePoll(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data struct {
		Title       string  `json:"title" validate:"required,max=256"`
		Description *string `json:"description" validate:"omitempty,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, err := v.polls.UpdateDetails(c.UserContext(), c.Params("pollId"), session, services.UpdatePollInput{
		Title:       data.Title,
		Description: data.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(poll)
}

func (v *Controller) updatePollStatus(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data struct {
		Status string `json:"status" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, previous, err := v.polls.UpdateStatus(c.UserContext(), c.Params("pollId"), session, data.Status)
	if err != nil {
		return err
	}

	v.hub.StatusChanged(poll.ID, previous, poll.Status)

	return c.JSON(poll)
}

func (v *Controller) deletePoll(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	pollId := c.Params("pollId")
	deleted, err := v.polls.Delete(c.UserContext(), pollId, session)
	if err != nil {
		return err
	}

	if deleted {
		v.hub.PollDeleted(pollId)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

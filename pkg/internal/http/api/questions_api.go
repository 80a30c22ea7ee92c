package api

import (
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) addQuestion(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data services.QuestionInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, err := v.polls.AddQuestion(c.UserContext(), c.Params("pollId"), session, data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

func (v *Controller) updateQuestion(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	var data services.QuestionInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, err := v.polls.UpdateQuestion(c.UserContext(), c.Params("pollId"), c.Params("questionId"), session, data)
	if err != nil {
		return err
	}

	return c.JSON(poll)
}

func (v *Controller) deleteQuestion(c *fiber.Ctx) error {
	session, err := exts.GetSession(c)
	if err != nil {
		return err
	}

	poll, err := v.polls.DeleteQuestion(c.UserContext(), c.Params("pollId"), c.Params("questionId"), session)
	if err != nil {
		return err
	}

	return c.JSON(poll)
}

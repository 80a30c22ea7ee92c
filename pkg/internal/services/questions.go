package services

import (
	"context"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/lifecycle"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
)

func (v *PollService) editQuestions(ctx context.Context, pollID, session string, edit func(poll *models.Poll) error) (models.Poll, error) {
	poll, err := v.repo.ReplaceQuestions(ctx, pollID, func(poll *models.Poll) error {
		if err := Authorize(*poll, session); err != nil {
			return err
		}
		if err := lifecycle.QuestionsEditable(*poll); err != nil {
			return err
		}
		return edit(poll)
	})
	if err != nil {
		return poll, err
	}
	v.invalidateResults(ctx, pollID)
	return poll, nil
}

// AddQuestion appends a question after the existing ones.
func (v *PollService) AddQuestion(ctx context.Context, pollID, session string, in QuestionInput) (models.Poll, error) {
	return v.editQuestions(ctx, pollID, session, func(poll *models.Poll) error {
		question, err := buildQuestion("question", in, len(poll.Questions))
		if err != nil {
			return err
		}
		question.PollID = poll.ID
		poll.Questions = append(poll.Questions, question)
		return nil
	})
}

func (v *PollService) UpdateQuestion(ctx context.Context, pollID, questionID, session string, in QuestionInput) (models.Poll, error) {
	return v.editQuestions(ctx, pollID, session, func(poll *models.Poll) error {
		_, idx, ok := lo.FindIndexOf(poll.Questions, func(item models.Question) bool {
			return item.ID == questionID
		})
		if !ok {
			return models.ErrNotFound
		}
		question, err := buildQuestion("question", in, poll.Questions[idx].Order)
		if err != nil {
			return err
		}
		question.ID = questionID
		question.PollID = poll.ID
		poll.Questions[idx] = question
		return nil
	})
}

// DeleteQuestion removes a question and closes the gap in the ordering.
func (v *PollService) DeleteQuestion(ctx context.Context, pollID, questionID, session string) (models.Poll, error) {
	return v.editQuestions(ctx, pollID, session, func(poll *models.Poll) error {
		if !lo.ContainsBy(poll.Questions, func(item models.Question) bool {
			return item.ID == questionID
		}) {
			return models.ErrNotFound
		}
		if len(poll.Questions) == 1 {
			return models.NewValidationError("questions", "a poll needs at least one question")
		}
		poll.Questions = lo.Reject(poll.Questions, func(item models.Question, _ int) bool {
			return item.ID == questionID
		})
		for idx := range poll.Questions {
			poll.Questions[idx].Order = idx
		}
		return nil
	})
}

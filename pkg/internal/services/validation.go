package services

import (
	"fmt"
	"sort"
	"strings"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type QuestionInput struct {
	Text     string   `json:"text" validate:"required,max=1024"`
	Type     string   `json:"type" validate:"required"`
	Options  []string `json:"options" validate:"max=64,dive,max=256"`
	Required *bool    `json:"required"`
	HelpText *string  `json:"help_text" validate:"omitempty,max=1024"`
}

// buildQuestion turns the input into a stored question at the given
// position. Options are kept only for choice types.
func buildQuestion(field string, in QuestionInput, order int) (models.Question, error) {
	text := strings.TrimSpace(in.Text)
	if len(text) == 0 {
		return models.Question{}, models.NewValidationError(field+".text", "must not be empty")
	}
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if !models.IsKnownQuestionType(kind) {
		return models.Question{}, models.NewValidationError(field+".type", "unknown question type %q", in.Type)
	}

	question := models.Question{
		ID:       uuid.NewString(),
		Order:    order,
		Text:     text,
		Type:     kind,
		Required: in.Required == nil || *in.Required,
	}
	if in.HelpText != nil {
		if help := strings.TrimSpace(*in.HelpText); len(help) > 0 {
			question.HelpText = &help
		}
	}

	if models.IsChoiceType(kind) {
		options := lo.Filter(lo.Map(in.Options, func(item string, _ int) string {
			return strings.TrimSpace(item)
		}), func(item string, _ int) bool {
			return len(item) > 0
		})
		if len(options) == 0 {
			return models.Question{}, models.NewValidationError(field+".options", "%s questions need at least one option", kind)
		}
		if dup := lo.FindDuplicates(options); len(dup) > 0 {
			return models.Question{}, models.NewValidationError(field+".options", "duplicate option %q", dup[0])
		}
		question.Options = options
	}

	return question, nil
}

func buildQuestions(inputs []QuestionInput) ([]models.Question, error) {
	if len(inputs) == 0 {
		return nil, models.NewValidationError("questions", "a poll needs at least one question")
	}
	out := make([]models.Question, 0, len(inputs))
	for idx, in := range inputs {
		q, err := buildQuestion(fmt.Sprintf("questions[%d]", idx), in, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// checkAnswers validates every answer against the question it references and
// returns the answers worth storing, in question order. Blank answers are
// treated as not given.
func checkAnswers(poll models.Poll, answers []models.Answer, requireComplete bool) ([]models.Answer, error) {
	seen := make(map[string]bool, len(answers))
	out := make([]models.Answer, 0, len(answers))

	for idx, answer := range answers {
		field := fmt.Sprintf("answers[%d]", idx)
		question, ok := poll.Question(answer.QuestionID)
		if !ok {
			return nil, models.NewValidationError(field+".question_id", "unknown question %q", answer.QuestionID)
		}
		if seen[question.ID] {
			return nil, models.NewValidationError(field+".question_id", "question %q answered twice", question.ID)
		}
		seen[question.ID] = true

		if answer.Value.IsBlank() {
			continue
		}
		value, err := checkValue(question, answer.Value)
		if err != nil {
			return nil, models.NewValidationError(field+".answer", "%s", err.Error())
		}
		out = append(out, models.Answer{QuestionID: question.ID, Value: value})
	}

	if requireComplete {
		for _, question := range poll.Questions {
			if !question.Required {
				continue
			}
			if !lo.ContainsBy(out, func(item models.Answer) bool {
				return item.QuestionID == question.ID
			}) {
				return nil, models.NewValidationError("answers", "question %q is required", question.Text)
			}
		}
	}

	order := lo.SliceToMap(poll.Questions, func(item models.Question) (string, int) {
		return item.ID, item.Order
	})
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].QuestionID] < order[out[j].QuestionID]
	})

	return out, nil
}

func checkValue(question models.Question, value models.AnswerValue) (models.AnswerValue, error) {
	mismatch := func(want string) error {
		return fmt.Errorf("%s question expects %s, got %s", question.Type, want, value.KindName())
	}

	switch question.Type {
	case models.QuestionTypeText:
		if value.Kind != models.AnswerKindText {
			return value, mismatch("a string")
		}
		return models.TextValue(strings.TrimSpace(value.Text)), nil
	case models.QuestionTypeSingleChoice:
		if value.Kind != models.AnswerKindText {
			return value, mismatch("a string")
		}
		if !lo.Contains(question.Options, value.Text) {
			return value, fmt.Errorf("%q is not one of the options", value.Text)
		}
		return value, nil
	case models.QuestionTypeMultipleChoice:
		if value.Kind != models.AnswerKindSet {
			return value, mismatch("a string list")
		}
		for _, item := range value.Set {
			if !lo.Contains(question.Options, item) {
				return value, fmt.Errorf("%q is not one of the options", item)
			}
		}
		if dup := lo.FindDuplicates(value.Set); len(dup) > 0 {
			return value, fmt.Errorf("option %q selected twice", dup[0])
		}
		return models.SetValue(value.Set...), nil
	case models.QuestionTypeRating:
		if value.Kind != models.AnswerKindNumber {
			return value, mismatch("an integer")
		}
		if value.Number < models.RatingMin || value.Number > models.RatingMax {
			return value, fmt.Errorf("rating must be between %d and %d", models.RatingMin, models.RatingMax)
		}
		return value, nil
	case models.QuestionTypeYesNo:
		if value.Kind != models.AnswerKindBool {
			return value, mismatch("a boolean")
		}
		return value, nil
	}

	return value, fmt.Errorf("unknown question type %q", question.Type)
}

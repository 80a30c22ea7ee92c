package services

import (
	"math"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
)

// AggregateResults computes per-question tallies. Percentages are relative to
// the responses that answered the question, not to all responses.
func AggregateResults(poll models.Poll, responses []models.Response) models.PollResults {
	results := models.PollResults{
		PollID:         poll.ID,
		Status:         poll.Status,
		TotalResponses: int64(len(responses)),
		Questions:      make([]models.QuestionResult, 0, len(poll.Questions)),
	}

	for _, question := range poll.Questions {
		answers := lo.FilterMap(responses, func(item models.Response, _ int) (models.AnswerValue, bool) {
			answer, ok := item.Answer(question.ID)
			if !ok || answer.Value.IsBlank() {
				return models.AnswerValue{}, false
			}
			return answer.Value, true
		})
		results.Questions = append(results.Questions, aggregateQuestion(question, answers))
	}

	return results
}

func aggregateQuestion(question models.Question, answers []models.AnswerValue) models.QuestionResult {
	result := models.QuestionResult{
		QuestionID: question.ID,
		Text:       question.Text,
		Type:       question.Type,
		Order:      question.Order,
		Answered:   int64(len(answers)),
	}

	switch question.Type {
	case models.QuestionTypeSingleChoice, models.QuestionTypeMultipleChoice:
		counts := make(map[string]int64, len(question.Options))
		for _, answer := range answers {
			switch answer.Kind {
			case models.AnswerKindText:
				counts[answer.Text]++
			case models.AnswerKindSet:
				for _, item := range answer.Set {
					counts[item]++
				}
			}
		}
		result.Options = lo.Map(question.Options, func(item string, _ int) models.OptionTally {
			return models.OptionTally{
				Option:     item,
				Count:      counts[item],
				Percentage: percentage(counts[item], result.Answered),
			}
		})
	case models.QuestionTypeRating:
		result.Ratings = make(map[int]int64, models.RatingMax-models.RatingMin+1)
		for star := models.RatingMin; star <= models.RatingMax; star++ {
			result.Ratings[star] = 0
		}
		var sum int
		for _, answer := range answers {
			result.Ratings[answer.Number]++
			sum += answer.Number
		}
		if len(answers) > 0 {
			result.Average = lo.ToPtr(round2(float64(sum) / float64(len(answers))))
		}
	case models.QuestionTypeYesNo:
		var yes, no int64
		for _, answer := range answers {
			if answer.Bool {
				yes++
			} else {
				no++
			}
		}
		result.Yes, result.No = &yes, &no
	case models.QuestionTypeText:
		result.Texts = lo.Map(answers, func(item models.AnswerValue, _ int) string {
			return item.Text
		})
	}

	return result
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(count) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

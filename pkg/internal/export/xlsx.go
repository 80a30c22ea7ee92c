// Package export renders poll results into downloadable files.
package export

import (
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

type Exporter interface {
	Export(poll models.Poll, responses []models.Response, results models.PollResults) ([]byte, error)
	ContentType() string
	Extension() string
}

const (
	SheetSummary   = "Summary"
	SheetResponses = "Responses"
	SheetResults   = "Results"
)

// Workbook writes an xlsx file with a summary, one row per response and the
// aggregated results.
type Workbook struct{}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

func (v *Workbook) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (v *Workbook) Extension() string { return "xlsx" }

func (v *Workbook) Export(poll models.Poll, responses []models.Response, results models.PollResults) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetResponses, SheetResults} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	if err := writeSummary(f, poll, results); err != nil {
		return nil, fmt.Errorf("unable to write summary: %w", err)
	}
	if err := writeResponses(f, poll, responses); err != nil {
		return nil, fmt.Errorf("unable to write responses: %w", err)
	}
	if err := writeResults(f, results); err != nil {
		return nil, fmt.Errorf("unable to write results: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeSummary(f *excelize.File, poll models.Poll, results models.PollResults) error {
	return writeRows(f, SheetSummary, [][]any{
		{"Title", poll.Title},
		{"Description", lo.FromPtr(poll.Description)},
		{"Join code", poll.Code},
		{"Status", poll.Status},
		{"Created at", formatTime(&poll.CreatedAt)},
		{"Expires at", formatTime(poll.ExpiresAt)},
		{"Questions", len(poll.Questions)},
		{"Responses", results.TotalResponses},
	})
}

func writeResponses(f *excelize.File, poll models.Poll, responses []models.Response) error {
	header := []any{"Response", "Participant", "Submitted at"}
	for _, q := range poll.Questions {
		header = append(header, q.Text)
	}

	rows := [][]any{header}
	for _, resp := range responses {
		row := []any{resp.ID, lo.FromPtr(resp.ParticipantName), formatTime(&resp.SubmittedAt)}
		for _, q := range poll.Questions {
			answer, _ := resp.Answer(q.ID)
			row = append(row, formatAnswer(answer.Value))
		}
		rows = append(rows, row)
	}
	return writeRows(f, SheetResponses, rows)
}

func formatAnswer(value models.AnswerValue) any {
	switch value.Kind {
	case models.AnswerKindText:
		return value.Text
	case models.AnswerKindSet:
		return strings.Join(value.Set, ", ")
	case models.AnswerKindNumber:
		return value.Number
	case models.AnswerKindBool:
		return lo.Ternary(value.Bool, "Yes", "No")
	}
	return ""
}

func writeResults(f *excelize.File, results models.PollResults) error {
	rows := [][]any{{"Question", "Type", "Answer", "Count", "Percentage"}}
	for _, q := range results.Questions {
		switch q.Type {
		case models.QuestionTypeSingleChoice, models.QuestionTypeMultipleChoice:
			for _, o := range q.Options {
				rows = append(rows, []any{q.Text, q.Type, o.Option, o.Count, o.Percentage})
			}
		case models.QuestionTypeRating:
			for star := models.RatingMin; star <= models.RatingMax; star++ {
				rows = append(rows, []any{q.Text, q.Type, fmt.Sprintf("%d stars", star), q.Ratings[star], ""})
			}
			if q.Average != nil {
				rows = append(rows, []any{q.Text, q.Type, "Average", *q.Average, ""})
			}
		case models.QuestionTypeYesNo:
			rows = append(rows,
				[]any{q.Text, q.Type, "Yes", lo.FromPtr(q.Yes), ""},
				[]any{q.Text, q.Type, "No", lo.FromPtr(q.No), ""},
			)
		case models.QuestionTypeText:
			for _, text := range q.Texts {
				rows = append(rows, []any{q.Text, q.Type, text, "", ""})
			}
		}
	}
	return writeRows(f, SheetResults, rows)
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type PollStatus = string

const (
	PollStatusReady    = PollStatus("ready")
	PollStatusActive   = PollStatus("active")
	PollStatusFinished = PollStatus("finished")
)

type QuestionType = string

const (
	QuestionTypeText           = QuestionType("text")
	QuestionTypeSingleChoice   = QuestionType("single_choice")
	QuestionTypeMultipleChoice = QuestionType("multiple_choice")
	QuestionTypeRating         = QuestionType("rating")
	QuestionTypeYesNo          = QuestionType("yes_no")
)

const (
	RatingMin = 1
	RatingMax = 5
)

// IsChoiceType reports whether questions of type t carry an option list.
func IsChoiceType(t QuestionType) bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultipleChoice
}

func IsKnownQuestionType(t QuestionType) bool {
	switch t {
	case QuestionTypeText, QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeRating, QuestionTypeYesNo:
		return true
	}
	return false
}

type Poll struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Code        string     `json:"code" gorm:"uniqueIndex;size:16"`
	Status      PollStatus `json:"status" gorm:"index;size:16"`
	Language    string     `json:"language" gorm:"size:8"`

	// OwnerSession is the opaque browser token of the host that created the poll.
	OwnerSession string `json:"-" gorm:"index;size:128"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	Questions []Question `json:"questions" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
	Responses []Response `json:"-" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`

	ResponseCount int64 `json:"response_count" gorm:"-"`
}

// Question returns the question with the given id.
func (p Poll) Question(id string) (Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Clone returns a copy of p that shares no slices with it.
func (p Poll) Clone() Poll {
	out := p
	out.Questions = make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		out.Questions[i] = q.Clone()
	}
	out.Responses = nil
	return out
}

type Question struct {
	ID       string                      `json:"id" gorm:"primaryKey;size:36"`
	PollID   string                      `json:"poll_id" gorm:"size:36;uniqueIndex:idx_question_position"`
	Order    int                         `json:"order" gorm:"column:position;uniqueIndex:idx_question_position"`
	Text     string                      `json:"text"`
	Type     QuestionType                `json:"type" gorm:"size:32"`
	Options  datatypes.JSONSlice[string] `json:"options"`
	Required bool                        `json:"required"`
	HelpText *string                     `json:"help_text"`
}

func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append(datatypes.JSONSlice[string]{}, q.Options...)
	}
	return out
}

// PublicPoll is the participant view of a poll, reached through its join code.
type PublicPoll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Code        string     `json:"code"`
	Status      PollStatus `json:"status"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Questions   []Question `json:"questions"`
}

func (p Poll) Public() PublicPoll {
	return PublicPoll{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Status:      p.Status,
		ExpiresAt:   p.ExpiresAt,
		Questions:   p.Questions,
	}
}

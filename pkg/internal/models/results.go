package models

type PollResults struct {
	PollID         string           `json:"poll_id"`
	Status         PollStatus       `json:"status"`
	TotalResponses int64            `json:"total_responses"`
	Questions      []QuestionResult `json:"questions"`
}

// QuestionResult is the aggregate of one question. Only the fields matching
// the question type are populated.
type QuestionResult struct {
	QuestionID string       `json:"question_id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Order      int          `json:"order"`
	Answered   int64        `json:"answered"`

	Options []OptionTally `json:"options,omitempty"`
	Ratings map[int]int64 `json:"ratings,omitempty"`
	Average *float64      `json:"average,omitempty"`
	Yes     *int64        `json:"yes,omitempty"`
	No      *int64        `json:"no,omitempty"`
	Texts   []string      `json:"texts,omitempty"`
}

type OptionTally struct {
	Option     string  `json:"option"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Option returns the tally of the named option.
func (r QuestionResult) Option(name string) (OptionTally, bool) {
	for _, o := range r.Options {
		if o.Option == name {
			return o, true
		}
	}
	return OptionTally{}, false
}

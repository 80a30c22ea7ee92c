package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

type Response struct {
	ID              string                      `json:"id" gorm:"primaryKey;size:36"`
	PollID          string                      `json:"poll_id" gorm:"size:36;index;uniqueIndex:idx_response_session,where:session_id IS NOT NULL"`
	ParticipantName *string                     `json:"participant_name"`
	SessionID       *string                     `json:"-" gorm:"size:128;uniqueIndex:idx_response_session,where:session_id IS NOT NULL"`
	Answers         datatypes.JSONSlice[Answer] `json:"answers"`
	SubmittedAt     time.Time                   `json:"submitted_at" gorm:"index"`
}

// Answer returns the answer given to the question, if any.
func (r Response) Answer(questionID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      AnswerValue `json:"answer"`
}

type AnswerKind = int8

const (
	AnswerKindNone = AnswerKind(iota)
	AnswerKindText
	AnswerKindSet
	AnswerKindNumber
	AnswerKindBool
)

// AnswerValue is the tagged value of an answer. On the wire it is the bare
// JSON value: a string, an array of strings, an integer or a boolean.
type AnswerValue struct {
	Kind   AnswerKind
	Text   string
	Set    []string
	Number int
	Bool   bool
}

func TextValue(s string) AnswerValue   { return AnswerValue{Kind: AnswerKindText, Text: s} }
func SetValue(s ...string) AnswerValue { return AnswerValue{Kind: AnswerKindSet, Set: s} }
func NumberValue(n int) AnswerValue    { return AnswerValue{Kind: AnswerKindNumber, Number: n} }
func BoolValue(b bool) AnswerValue     { return AnswerValue{Kind: AnswerKindBool, Bool: b} }

// IsBlank reports whether the value counts as "not answered".
func (v AnswerValue) IsBlank() bool {
	switch v.Kind {
	case AnswerKindNone:
		return true
	case AnswerKindText:
		return len(strings.TrimSpace(v.Text)) == 0
	case AnswerKindSet:
		return len(v.Set) == 0
	}
	return false
}

func (v AnswerValue) KindName() string {
	switch v.Kind {
	case AnswerKindText:
		return "string"
	case AnswerKindSet:
		return "string list"
	case AnswerKindNumber:
		return "integer"
	case AnswerKindBool:
		return "boolean"
	default:
		return "null"
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerKindText:
		return jsoniter.Marshal(v.Text)
	case AnswerKindSet:
		if v.Set == nil {
			return []byte("[]"), nil
		}
		return jsoniter.Marshal(v.Set)
	case AnswerKindNumber:
		return jsoniter.Marshal(v.Number)
	case AnswerKindBool:
		return jsoniter.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = AnswerValue{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 'n':
		return nil
	case '"':
		v.Kind = AnswerKindText
		return jsoniter.Unmarshal(data, &v.Text)
	case '[':
		v.Kind = AnswerKindSet
		v.Set = []string{}
		if err := jsoniter.Unmarshal(data, &v.Set); err != nil {
			return fmt.Errorf("answer list must only contain strings: %w", err)
		}
		return nil
	case 't', 'f':
		v.Kind = AnswerKindBool
		return jsoniter.Unmarshal(data, &v.Bool)
	case '{':
		return fmt.Errorf("unsupported answer value: object")
	default:
		raw := string(data)
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v.Kind = AnswerKindNumber
			v.Number = int(n)
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("unsupported answer value: %s", raw)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("answer number must be an integer: %s", raw)
		}
		v.Kind = AnswerKindNumber
		v.Number = int(f)
		return nil
	}
}

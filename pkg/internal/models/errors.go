package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPollNotActive     = errors.New("poll is not accepting responses")
	ErrPollExpired       = errors.New("poll has expired")
	ErrConnection        = errors.New("connection unavailable")

	ErrForbidden        = errors.New("session is not allowed to manage this poll")
	ErrQuestionsLocked  = errors.New("questions can only be changed before the poll starts")
	ErrPollLocked       = errors.New("poll details can only be changed before the poll starts")
	ErrAlreadyResponded = errors.New("this session already responded to the poll")
	ErrDuplicateCode    = errors.New("join code already in use")
)

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type TransitionError struct {
	Current   PollStatus
	Attempted PollStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move poll from %s to %s", e.Current, e.Attempted)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NotActiveError carries the status a rejected submission found the poll in.
type NotActiveError struct {
	Status PollStatus
}

func (e *NotActiveError) Error() string {
	if e.Status == PollStatusFinished {
		return "poll is closed"
	}
	return fmt.Sprintf("poll is %s and not accepting responses", e.Status)
}

func (e *NotActiveError) Unwrap() error { return ErrPollNotActive }

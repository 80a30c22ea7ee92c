// Package storage is the persistence boundary of the poll service. The rest
// of the code only talks to Repository; the engine behind it is either
// postgres through gorm or a process-local map.
package storage

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
)

// Repository stores polls with their questions and responses.
//
// Lookups return models.ErrNotFound for unknown ids. Questions are always
// returned sorted by order. Mutating calls that take a callback run it while
// holding the poll exclusively, so check-then-set sequences cannot interleave
// with another mutation of the same poll.
type Repository interface {
	Kind() string
	Ping(ctx context.Context) error

	// CreatePoll persists the poll and its questions atomically. A join code
	// that already exists fails with models.ErrDuplicateCode.
	CreatePoll(ctx context.Context, poll *models.Poll) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	GetPollByCode(ctx context.Context, code string) (models.Poll, error)
	ListPolls(ctx context.Context, ownerSession string) ([]models.Poll, error)
	ListExpiredPolls(ctx context.Context, now time.Time) ([]models.Poll, error)

	// UpdatePoll applies mutate to the stored poll and saves its own columns.
	// When mutate fails nothing is written and its error is returned.
	UpdatePoll(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error)
	// ReplaceQuestions is UpdatePoll for the question list.
	ReplaceQuestions(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error)
	// DeletePoll removes the poll, its questions and responses. It reports
	// whether a poll was removed.
	DeletePoll(ctx context.Context, id string) (bool, error)

	// InsertResponse stores resp if guard accepts the current poll. A second
	// response with the same session id fails with models.ErrAlreadyResponded.
	InsertResponse(ctx context.Context, resp *models.Response, guard func(poll models.Poll) error) error
	ListResponses(ctx context.Context, pollID string) ([]models.Response, error)
	GetResponse(ctx context.Context, pollID, responseID string) (models.Response, error)
	CountResponses(ctx context.Context, pollID string) (int64, error)

	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Polls     int64 `json:"polls_count"`
	Responses int64 `json:"responses_count"`
}

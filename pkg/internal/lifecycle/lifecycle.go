// Package lifecycle holds the poll status machine:
//
//	ready -> active -> finished
//
// finished is terminal. Every poll is created in ready.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
)

var transitions = map[models.PollStatus][]models.PollStatus{
	models.PollStatusReady:  {models.PollStatusActive},
	models.PollStatusActive: {models.PollStatusFinished},
}

var knownStatuses = []models.PollStatus{
	models.PollStatusReady,
	models.PollStatusActive,
	models.PollStatusFinished,
}

// InitialStatus is the status of a freshly created poll.
func InitialStatus() models.PollStatus {
	return models.PollStatusReady
}

func ParseStatus(raw string) (models.PollStatus, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if !lo.Contains(knownStatuses, status) {
		return "", models.NewValidationError("status", "unknown status %q", raw)
	}
	return status, nil
}

func CanTransition(from, to models.PollStatus) bool {
	return lo.Contains(transitions[from], to)
}

// Apply moves the poll to the target status and fills in the timestamps that
// come with the move. The poll is left untouched when the move is illegal.
func Apply(poll *models.Poll, to models.PollStatus, now time.Time, defaultDuration time.Duration) error {
	if !CanTransition(poll.Status, to) {
		return &models.TransitionError{Current: poll.Status, Attempted: to}
	}

	switch to {
	case models.PollStatusActive:
		if IsExpired(*poll, now) {
			return models.NewValidationError("expires_at", "expired at %s, move it into the future before starting", poll.ExpiresAt.Format(time.RFC3339))
		}
		poll.StartedAt = lo.ToPtr(now)
		if poll.ExpiresAt == nil && defaultDuration > 0 {
			poll.ExpiresAt = lo.ToPtr(now.Add(defaultDuration))
		}
	case models.PollStatusFinished:
		poll.FinishedAt = lo.ToPtr(now)
	}
	poll.Status = to

	return nil
}

// AcceptsResponses checks whether a submission may be stored right now.
func AcceptsResponses(poll models.Poll, now time.Time) error {
	if poll.Status != models.PollStatusActive {
		return &models.NotActiveError{Status: poll.Status}
	}
	if IsExpired(poll, now) {
		return fmt.Errorf("%w: expired at %s", models.ErrPollExpired, poll.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func IsExpired(poll models.Poll, now time.Time) bool {
	return poll.ExpiresAt != nil && !now.Before(*poll.ExpiresAt)
}

// QuestionsEditable guards question changes; once a poll goes live its
// questions are frozen so in-flight answers stay meaningful.
func QuestionsEditable(poll models.Poll) error {
	if poll.Status != models.PollStatusReady {
		return fmt.Errorf("%w: poll is %s", models.ErrQuestionsLocked, poll.Status)
	}
	return nil
}

// DetailsEditable guards title and description changes.
func DetailsEditable(poll models.Poll) error {
	if poll.Status != models.PollStatusReady {
		return fmt.Errorf("%w: poll is %s", models.ErrPollLocked, poll.Status)
	}
	return nil
}

package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/lifecycle"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

var errSkipSweep = errors.New("poll no longer needs finishing")

// FinishExpired moves every active poll past its expiry to finished and calls
// notify for each poll it moved. Polls changed by someone else in between are
// left alone.
func (v *PollService) FinishExpired(ctx context.Context, notify func(poll models.Poll, previous models.PollStatus)) (int, error) {
	now := v.Clock()
	expired, err := v.repo.ListExpiredPolls(ctx, now)
	if err != nil {
		return 0, err
	}

	var finished int
	for _, item := range expired {
		poll, err := v.repo.UpdatePoll(ctx, item.ID, func(poll *models.Poll) error {
			if poll.Status != models.PollStatusActive || !lifecycle.IsExpired(*poll, now) {
				return errSkipSweep
			}
			return lifecycle.Apply(poll, models.PollStatusFinished, now, 0)
		})
		if errors.Is(err, errSkipSweep) || errors.Is(err, models.ErrNotFound) {
			continue
		} else if err != nil {
			log.Error().Err(err).Str("poll", item.ID).Msg("An error occurred when finishing expired poll...")
			continue
		}

		finished++
		v.invalidateResults(ctx, poll.ID)
		if notify != nil {
			notify(poll, models.PollStatusActive)
		}
	}

	return finished, nil
}

// DoExpirySweep is the scheduled entry point of FinishExpired.
func (v *PollService) DoExpirySweep(notify func(poll models.Poll, previous models.PollStatus)) {
	log.Debug().Msg("Now sweeping expired polls...")
	if count, err := v.FinishExpired(context.Background(), notify); err != nil {
		log.Error().Err(err).Msg("An error occurred when sweeping expired polls...")
	} else if count > 0 {
		log.Info().Int("count", count).Msg("Finished expired polls.")
	}
}

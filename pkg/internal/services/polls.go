package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/lifecycle"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/storage"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// PollService owns every rule about polls, questions and responses. Storage
// and caching are plugged in; the hooks below are replaceable for tests.
type PollService struct {
	repo    storage.Repository
	cfg     Config
	results *marshaler.Marshaler

	Clock          func() time.Time
	GenerateCode   func(length int) string
	DetectLanguage func(text string) string
}

// NewPollService wires the service. cacheStore may be nil to disable the
// results cache.
func NewPollService(repo storage.Repository, cfg Config, cacheStore store.StoreInterface) *PollService {
	svc := &PollService{
		repo:         repo,
		cfg:          cfg,
		Clock:        time.Now,
		GenerateCode: GenerateJoinCode,
	}
	if cfg.DetectLanguage {
		svc.DetectLanguage = DetectLanguage
	}
	if cacheStore != nil {
		svc.results = marshaler.New(cache.New[any](cacheStore))
	}
	return svc
}

func (v *PollService) Repository() storage.Repository {
	return v.repo
}

type CreatePollInput struct {
	Title        string
	Description  *string
	ExpiresAt    *time.Time
	Questions    []QuestionInput
	OwnerSession string
}

func (v *PollService) Create(ctx context.Context, in CreatePollInput) (models.Poll, error) {
	now := v.Clock()

	title := strings.TrimSpace(in.Title)
	if len(title) == 0 {
		return models.Poll{}, models.NewValidationError("title", "must not be empty")
	}
	questions, err := buildQuestions(in.Questions)
	if err != nil {
		return models.Poll{}, err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return models.Poll{}, models.NewValidationError("expires_at", "must be in the future")
	}

	poll := models.Poll{
		ID:           uuid.NewString(),
		Title:        title,
		Status:       lifecycle.InitialStatus(),
		OwnerSession: in.OwnerSession,
		ExpiresAt:    in.ExpiresAt,
		CreatedAt:    now,
	}
	if in.Description != nil {
		if desc := strings.TrimSpace(*in.Description); len(desc) > 0 {
			poll.Description = &desc
		}
	}
	for idx := range questions {
		questions[idx].PollID = poll.ID
	}
	poll.Questions = questions

	if v.DetectLanguage != nil {
		poll.Language = v.DetectLanguage(strings.TrimSpace(title + " " + lo.FromPtr(poll.Description)))
	}

	for attempt := 0; attempt < v.cfg.CodeAttempts; attempt++ {
		code := NormalizeCode(v.GenerateCode(v.cfg.CodeLength))
		if exists, err := v.repo.CodeExists(ctx, code); err != nil {
			return poll, err
		} else if exists {
			continue
		}

		poll.Code = code
		if err := v.repo.CreatePoll(ctx, &poll); errors.Is(err, models.ErrDuplicateCode) {
			// Lost a race with a concurrent create, draw again
			continue
		} else if err != nil {
			return poll, err
		}

		log.Info().Str("poll", poll.ID).Str("code", poll.Code).Int("questions", len(poll.Questions)).Msg("Poll created.")
		return poll, nil
	}

	return models.Poll{}, fmt.Errorf("unable to allocate a unique join code after %d attempts", v.cfg.CodeAttempts)
}

// Get returns the host view of a poll including its response count.
func (v *PollService) Get(ctx context.Context, id string) (models.Poll, error) {
	poll, err := v.repo.GetPoll(ctx, id)
	if err != nil {
		return poll, err
	}
	if poll.ResponseCount, err = v.repo.CountResponses(ctx, id); err != nil {
		return poll, err
	}
	return poll, nil
}

func (v *PollService) GetByCode(ctx context.Context, code string) (models.Poll, error) {
	code = NormalizeCode(code)
	if len(code) == 0 {
		return models.Poll{}, models.ErrNotFound
	}
	return v.repo.GetPollByCode(ctx, code)
}

// Authorize checks that the session may manage the poll. Polls created
// without a session can be managed by anyone.
func Authorize(poll models.Poll, session string) error {
	if len(poll.OwnerSession) > 0 && poll.OwnerSession != session {
		return models.ErrForbidden
	}
	return nil
}

// GetOwned is Get restricted to the poll owner.
func (v *PollService) GetOwned(ctx context.Context, id, session string) (models.Poll, error) {
	poll, err := v.Get(ctx, id)
	if err != nil {
		return poll, err
	}
	return poll, Authorize(poll, session)
}

func (v *PollService) ListOwned(ctx context.Context, session string) ([]models.Poll, error) {
	if len(session) == 0 {
		return nil, models.NewValidationError("session", "a session id is required to list polls")
	}
	return v.repo.ListPolls(ctx, session)
}

// UpdateStatus moves the poll through the lifecycle. The status check and the
// write happen under the storage lock, so two concurrent starts cannot both
// succeed. It returns the updated poll and the status it had before.
func (v *PollService) UpdateStatus(ctx context.Context, id, session, status string) (models.Poll, models.PollStatus, error) {
	target, err := lifecycle.ParseStatus(status)
	if err != nil {
		return models.Poll{}, "", err
	}

	var previous models.PollStatus
	poll, err := v.repo.UpdatePoll(ctx, id, func(poll *models.Poll) error {
		if err := Authorize(*poll, session); err != nil {
			return err
		}
		previous = poll.Status
		return lifecycle.Apply(poll, target, v.Clock(), v.cfg.DefaultDuration)
	})
	if err != nil {
		return poll, previous, err
	}

	v.invalidateResults(ctx, id)
	log.Info().Str("poll", id).Str("from", previous).Str("to", poll.Status).Msg("Poll status changed.")
	return poll, previous, nil
}

type UpdatePollInput struct {
	Title       string
	Description *string
}

// UpdateDetails rewrites the title and description of a poll that has not
// started yet. A nil or blank description clears it.
func (v *PollService) UpdateDetails(ctx context.Context, id, session string, in UpdatePollInput) (models.Poll, error) {
	title := strings.TrimSpace(in.Title)
	if len(title) == 0 {
		return models.Poll{}, models.NewValidationError("title", "must not be empty")
	}
	var description *string
	if in.Description != nil {
		if desc := strings.TrimSpace(*in.Description); len(desc) > 0 {
			description = &desc
		}
	}

	poll, err := v.repo.UpdatePoll(ctx, id, func(poll *models.Poll) error {
		if err := Authorize(*poll, session); err != nil {
			return err
		} else if err := lifecycle.DetailsEditable(*poll); err != nil {
			return err
		}
		poll.Title = title
		poll.Description = description
		if v.DetectLanguage != nil {
			poll.Language = v.DetectLanguage(strings.TrimSpace(title + " " + lo.FromPtr(description)))
		}
		return nil
	})
	if err != nil {
		return poll, err
	}

	v.invalidateResults(ctx, id)
	return poll, nil
}

type SubmitInput struct {
	Answers         []models.Answer
	ParticipantName *string
	SessionID       string
}

// Submit stores a response. Poll status and expiry are checked under the
// storage lock together with the insert, so a poll that was just finished
// never gains another response.
func (v *PollService) Submit(ctx context.Context, pollID string, in SubmitInput) (models.Response, error) {
	resp := models.Response{
		ID:     uuid.NewString(),
		PollID: pollID,
	}
	if in.ParticipantName != nil {
		if name := strings.TrimSpace(*in.ParticipantName); len(name) > 0 {
			resp.ParticipantName = &name
		}
	}
	if len(in.SessionID) > 0 {
		resp.SessionID = lo.ToPtr(in.SessionID)
	}

	err := v.repo.InsertResponse(ctx, &resp, func(poll models.Poll) error {
		now := v.Clock()
		if err := lifecycle.AcceptsResponses(poll, now); err != nil {
			return err
		}
		answers, err := checkAnswers(poll, in.Answers, v.cfg.RequireComplete)
		if err != nil {
			return err
		}
		resp.Answers = answers
		resp.SubmittedAt = now
		return nil
	})
	if err != nil {
		return resp, err
	}

	return resp, nil
}

func (v *PollService) CountResponses(ctx context.Context, pollID string) (int64, error) {
	return v.repo.CountResponses(ctx, pollID)
}

func (v *PollService) ListResponses(ctx context.Context, pollID, session string) ([]models.Response, error) {
	poll, err := v.repo.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(poll, session); err != nil {
		return nil, err
	}
	return v.repo.ListResponses(ctx, pollID)
}

// GetResponse returns one response of a poll to its owner.
func (v *PollService) GetResponse(ctx context.Context, pollID, responseID, session string) (models.Response, error) {
	poll, err := v.repo.GetPoll(ctx, pollID)
	if err != nil {
		return models.Response{}, err
	}
	if err := Authorize(poll, session); err != nil {
		return models.Response{}, err
	}
	return v.repo.GetResponse(ctx, pollID, responseID)
}

func resultsCacheKey(poll models.Poll, count int64) string {
	return fmt.Sprintf("poll-results#%s#%s#%d", poll.ID, poll.Status, count)
}

func resultsCacheTag(id string) string {
	return fmt.Sprintf("poll#%s", id)
}

// Results aggregates the responses of a poll. Aggregates are cached per
// status and response count, so any new response or status change misses.
func (v *PollService) Results(ctx context.Context, pollID string) (models.PollResults, error) {
	poll, err := v.repo.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	count, err := v.repo.CountResponses(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}

	key := resultsCacheKey(poll, count)
	if v.results != nil {
		if val, err := v.results.Get(ctx, key, new(models.PollResults)); err == nil {
			return *val.(*models.PollResults), nil
		}
	}

	responses, err := v.repo.ListResponses(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	results := AggregateResults(poll, responses)

	if v.results != nil && int64(len(responses)) == count {
		if err := v.results.Set(
			ctx,
			key,
			results,
			store.WithExpiration(v.cfg.ResultsTTL),
			store.WithTags([]string{"poll-results", resultsCacheTag(pollID)}),
		); err != nil {
			log.Warn().Err(err).Str("poll", pollID).Msg("Unable to cache poll results...")
		}
	}

	return results, nil
}

func (v *PollService) invalidateResults(ctx context.Context, pollID string) {
	if v.results == nil {
		return
	}
	_ = v.results.Invalidate(ctx, store.WithInvalidateTags([]string{resultsCacheTag(pollID)}))
}

// Delete removes a poll with its questions and responses. Deleting an unknown
// poll is a no-op; the returned flag tells whether anything was removed.
func (v *PollService) Delete(ctx context.Context, id, session string) (bool, error) {
	poll, err := v.repo.GetPoll(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := Authorize(poll, session); err != nil {
		return false, err
	}

	deleted, err := v.repo.DeletePoll(ctx, id)
	if err != nil {
		return false, err
	}
	v.invalidateResults(ctx, id)
	if deleted {
		log.Info().Str("poll", id).Msg("Poll deleted.")
	}
	return deleted, nil
}

func (v *PollService) Stats(ctx context.Context) (storage.Stats, error) {
	if err := v.repo.Ping(ctx); err != nil {
		return storage.Stats{}, err
	}
	return v.repo.Stats(ctx)
}

package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/samber/lo"
)

// MemoryRepository keeps everything in process memory behind one lock.
type MemoryRepository struct {
	mutex     sync.RWMutex
	polls     map[string]*models.Poll
	codes     map[string]string
	responses map[string][]models.Response
	sessions  map[string]map[string]bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		polls:     make(map[string]*models.Poll),
		codes:     make(map[string]string),
		responses: make(map[string][]models.Response),
		sessions:  make(map[string]map[string]bool),
	}
}

func (s *MemoryRepository) Kind() string { return "memory" }

func (s *MemoryRepository) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.polls[poll.ID]; exists {
		return fmt.Errorf("poll %s already exists", poll.ID)
	}
	if _, exists := s.codes[poll.Code]; exists {
		return models.ErrDuplicateCode
	}

	now := time.Now()
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = now
	}
	poll.UpdatedAt = now

	stored := poll.Clone()
	sortQuestions(stored.Questions)
	s.polls[poll.ID] = &stored
	s.codes[poll.Code] = poll.ID

	return nil
}

func (s *MemoryRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.codes[code]
	return exists, nil
}

func (s *MemoryRepository) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	poll, exists := s.polls[id]
	if !exists {
		return models.Poll{}, models.ErrNotFound
	}
	return poll.Clone(), nil
}

func (s *MemoryRepository) GetPollByCode(ctx context.Context, code string) (models.Poll, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	id, exists := s.codes[code]
	if !exists {
		return models.Poll{}, models.ErrNotFound
	}
	return s.polls[id].Clone(), nil
}

func (s *MemoryRepository) ListPolls(ctx context.Context, ownerSession string) ([]models.Poll, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Poll
	for _, poll := range s.polls {
		if poll.OwnerSession != ownerSession {
			continue
		}
		item := poll.Clone()
		item.ResponseCount = int64(len(s.responses[poll.ID]))
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *MemoryRepository) ListExpiredPolls(ctx context.Context, now time.Time) ([]models.Poll, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Poll
	for _, poll := range s.polls {
		if poll.Status == models.PollStatusActive && poll.ExpiresAt != nil && !poll.ExpiresAt.After(now) {
			out = append(out, poll.Clone())
		}
	}
	return out, nil
}

func (s *MemoryRepository) UpdatePoll(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error) {
	return s.update(id, func(poll *models.Poll) error {
		questions := poll.Questions
		if err := mutate(poll); err != nil {
			return err
		}
		poll.Questions = questions
		return nil
	})
}

func (s *MemoryRepository) ReplaceQuestions(ctx context.Context, id string, mutate func(poll *models.Poll) error) (models.Poll, error) {
	return s.update(id, mutate)
}

func (s *MemoryRepository) update(id string, mutate func(poll *models.Poll) error) (models.Poll, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored, exists := s.polls[id]
	if !exists {
		return models.Poll{}, models.ErrNotFound
	}

	working := stored.Clone()
	if err := mutate(&working); err != nil {
		return stored.Clone(), err
	}
	working.ID = stored.ID
	working.Code = stored.Code
	working.UpdatedAt = time.Now()
	sortQuestions(working.Questions)
	s.polls[id] = &working

	return working.Clone(), nil
}

func (s *MemoryRepository) DeletePoll(ctx context.Context, id string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	poll, exists := s.polls[id]
	if !exists {
		return false, nil
	}
	delete(s.codes, poll.Code)
	delete(s.polls, id)
	delete(s.responses, id)
	delete(s.sessions, id)

	return true, nil
}

func (s *MemoryRepository) InsertResponse(ctx context.Context, resp *models.Response, guard func(poll models.Poll) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	poll, exists := s.polls[resp.PollID]
	if !exists {
		return models.ErrNotFound
	}
	if err := guard(poll.Clone()); err != nil {
		return err
	}
	if resp.SessionID != nil && s.sessions[resp.PollID][*resp.SessionID] {
		return models.ErrAlreadyResponded
	}

	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now()
	}
	s.responses[resp.PollID] = append(s.responses[resp.PollID], cloneResponse(*resp))
	if resp.SessionID != nil {
		if s.sessions[resp.PollID] == nil {
			s.sessions[resp.PollID] = make(map[string]bool)
		}
		s.sessions[resp.PollID][*resp.SessionID] = true
	}

	return nil
}

func (s *MemoryRepository) ListResponses(ctx context.Context, pollID string) ([]models.Response, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if _, exists := s.polls[pollID]; !exists {
		return nil, models.ErrNotFound
	}
	return lo.Map(s.responses[pollID], func(item models.Response, _ int) models.Response {
		return cloneResponse(item)
	}), nil
}

func (s *MemoryRepository) GetResponse(ctx context.Context, pollID, responseID string) (models.Response, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	resp, ok := lo.Find(s.responses[pollID], func(item models.Response) bool {
		return item.ID == responseID
	})
	if !ok {
		return models.Response{}, models.ErrNotFound
	}
	return cloneResponse(resp), nil
}

func (s *MemoryRepository) CountResponses(ctx context.Context, pollID string) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return int64(len(s.responses[pollID])), nil
}

func (s *MemoryRepository) Stats(ctx context.Context) (Stats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stats := Stats{Polls: int64(len(s.polls))}
	for _, items := range s.responses {
		stats.Responses += int64(len(items))
	}
	return stats, nil
}

func sortQuestions(questions []models.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
}

func cloneResponse(resp models.Response) models.Response {
	out := resp
	out.Answers = make([]models.Answer, len(resp.Answers))
	for i, a := range resp.Answers {
		out.Answers[i] = a
		if a.Value.Set != nil {
			out.Answers[i].Value.Set = append([]string{}, a.Value.Set...)
		}
	}
	return out
}

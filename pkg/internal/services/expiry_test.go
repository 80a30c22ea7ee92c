package services

import (
	"context"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
)

func TestFinishExpired(t *testing.T) {
	svc, clock := newTestService(t, func(cfg *Config) { cfg.DefaultDuration = 0 })
	ctx := context.Background()

	soon := clock.now.Add(time.Minute)
	later := clock.now.Add(time.Hour)
	expiring, err := svc.Create(ctx, CreatePollInput{Title: "soon", ExpiresAt: &soon, Questions: []QuestionInput{ratingQuestion()}})
	if err != nil {
		t.Fatal(err)
	}
	open, err := svc.Create(ctx, CreatePollInput{Title: "later", ExpiresAt: &later, Questions: []QuestionInput{ratingQuestion()}})
	if err != nil {
		t.Fatal(err)
	}
	idle := mustCreate(t, svc, ratingQuestion())
	for _, id := range []string{expiring.ID, open.ID} {
		if _, _, err := svc.UpdateStatus(ctx, id, "", models.PollStatusActive); err != nil {
			t.Fatal(err)
		}
	}

	clock.now = clock.now.Add(2 * time.Minute)
	var notified []string
	count, err := svc.FinishExpired(ctx, func(poll models.Poll, previous models.PollStatus) {
		if previous != models.PollStatusActive || poll.Status != models.PollStatusFinished {
			t.Errorf("notified %s -> %s", previous, poll.Status)
		}
		notified = append(notified, poll.ID)
	})
	if err != nil {
		t.Fatalf("FinishExpired: %v", err)
	}
	if count != 1 || len(notified) != 1 || notified[0] != expiring.ID {
		t.Fatalf("finished %d polls, notified %v", count, notified)
	}

	for id, want := range map[string]models.PollStatus{
		expiring.ID: models.PollStatusFinished,
		open.ID:     models.PollStatusActive,
		idle.ID:     models.PollStatusReady,
	} {
		stored, _ := svc.Get(ctx, id)
		if stored.Status != want {
			t.Errorf("poll %s status = %s, want %s", id, stored.Status, want)
		}
	}

	if count, _ := svc.FinishExpired(ctx, nil); count != 0 {
		t.Errorf("second sweep finished %d polls", count)
	}
}

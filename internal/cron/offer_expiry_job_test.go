package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mgilberte/opsdeck-backend/pkg/logger"
)

func TestOfferExpiryJobExpiresOverdueOffers(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	repo := &fakeOfferExpiryRepo{expired: 3}
	job := newOfferExpiryJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected cutoff %s, got %s", now, repo.lastNow)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestOfferExpiryJobPropagatesError(t *testing.T) {
	repo := &fakeOfferExpiryRepo{err: errors.New("boom")}
	job := newOfferExpiryJob(t, repo)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newOfferExpiryJob(t *testing.T, repo *fakeOfferExpiryRepo) *offerExpiryJob {
	t.Helper()
	jobIface, err := NewOfferExpiryJob(OfferExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewOfferExpiryJob: %v", err)
	}
	job, ok := jobIface.(*offerExpiryJob)
	if !ok {
		t.Fatalf("expected offerExpiryJob, got %T", jobIface)
	}
	return job
}

type fakeOfferExpiryRepo struct {
	lastNow time.Time
	expired int64
	called  int
	err     error
}

func (f *fakeOfferExpiryRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	f.called++
	f.lastNow = now
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}

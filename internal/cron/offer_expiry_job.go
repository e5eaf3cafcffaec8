package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/mgilberte/opsdeck-backend/pkg/metrics"
)

// OfferExpiryJobParams configure the offer expiry sweep.
type OfferExpiryJobParams struct {
	Logger     *logger.Logger
	Repository offerExpiryRepo
	Metrics    *metrics.OfferMetrics
}

type offerExpiryRepo interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// NewOfferExpiryJob moves sent offers past their validity window to expired.
// The sweep reuses the same status-guarded update as the rest of the
// lifecycle, so it can never race an acceptance into a double transition.
func NewOfferExpiryJob(params OfferExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	return &offerExpiryJob{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type offerExpiryJob struct {
	logg    *logger.Logger
	repo    offerExpiryRepo
	metrics *metrics.OfferMetrics
	now     func() time.Time
}

func (j *offerExpiryJob) Name() string { return "offer-expiry" }

func (j *offerExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	expired, err := j.repo.ExpireDue(ctx, now)
	if err != nil {
		return fmt.Errorf("offer expiry: %w", err)
	}
	for i := int64(0); i < expired; i++ {
		j.metrics.IncTransition(enums.OfferStatusExpired.String())
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_expired": expired,
	})
	j.logg.Info(logCtx, "offer expiry sweep complete")
	return nil
}

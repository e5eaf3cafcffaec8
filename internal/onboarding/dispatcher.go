package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// AcceptedOffer carries the facts the dispatcher needs after an acceptance
// has been committed.
type AcceptedOffer struct {
	TenantID   uuid.UUID
	ClientID   uuid.UUID
	OfferID    uuid.UUID
	ClientName string
	Amount     decimal.Decimal
	AcceptedAt time.Time
}

// Dispatcher runs post-acceptance side effects. Both steps are best-effort:
// each failure is caught and logged, neither can undo the committed
// acceptance or block the other.
type Dispatcher interface {
	Dispatch(ctx context.Context, accepted AcceptedOffer)
}

type seedEntry struct {
	title       string
	description string
}

// defaultChecklist is the fixed onboarding set seeded for a client after
// their first accepted offer.
var defaultChecklist = []seedEntry{
	{title: "Collect documents", description: "Gather signed contract and billing details."},
	{title: "Schedule kick-off call", description: "Book the first call with the client team."},
	{title: "Set up shared drive", description: "Create the shared folder and grant access."},
}

type checklistSeeder interface {
	CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)
	CreateBatch(ctx context.Context, entries []models.ChecklistEntry) error
}

// Notifier delivers the outbound acceptance notification.
type Notifier interface {
	NotifyAccepted(ctx context.Context, accepted AcceptedOffer) error
}

type dispatcher struct {
	checklists checklistSeeder
	notifier   Notifier
	logg       *logger.Logger
}

// NewDispatcher constructs the onboarding dispatcher.
func NewDispatcher(checklists checklistSeeder, notifier Notifier, logg *logger.Logger) (Dispatcher, error) {
	if checklists == nil {
		return nil, fmt.Errorf("checklist seeder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &dispatcher{checklists: checklists, notifier: notifier, logg: logg}, nil
}

// Dispatch seeds the default checklist and fires the webhook. Each step is
// individually caught; failures are aggregated for the log line only.
func (d *dispatcher) Dispatch(ctx context.Context, accepted AcceptedOffer) {
	var errs error

	if err := d.seedChecklist(ctx, accepted); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("checklist seed: %w", err))
	}

	if err := d.notifier.NotifyAccepted(ctx, accepted); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("webhook notify: %w", err))
	}

	if errs != nil {
		ctx = d.logg.WithFields(ctx, map[string]any{
			"offer_id":  accepted.OfferID.String(),
			"client_id": accepted.ClientID.String(),
		})
		d.logg.Error(ctx, "onboarding side effects incomplete", errs)
	}
}

// seedChecklist inserts the default set unless the client already has
// entries. The guard makes a retried dispatch a no-op.
func (d *dispatcher) seedChecklist(ctx context.Context, accepted AcceptedOffer) error {
	count, err := d.checklists.CountByClient(ctx, accepted.TenantID, accepted.ClientID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := make([]models.ChecklistEntry, 0, len(defaultChecklist))
	for _, seed := range defaultChecklist {
		desc := seed.description
		entries = append(entries, models.ChecklistEntry{
			TenantID:    accepted.TenantID,
			ClientID:    accepted.ClientID,
			Title:       seed.title,
			Description: &desc,
		})
	}
	return d.checklists.CreateBatch(ctx, entries)
}

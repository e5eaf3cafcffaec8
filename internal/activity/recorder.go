package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"gorm.io/gorm"
)

// Event is one audit-trail fact to be recorded.
type Event struct {
	TenantID uuid.UUID
	OfferID  *uuid.UUID
	ActorID  *uuid.UUID
	Action   enums.ActivityAction
	Payload  map[string]any
}

// Recorder appends audit events. Recording is fire-and-forget: failures are
// logged and never surfaced to the calling operation.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Repository persists activity events.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an activity event row.
func (r *Repository) Create(ctx context.Context, event *models.ActivityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

type eventWriter interface {
	Create(ctx context.Context, event *models.ActivityEvent) error
}

type recorder struct {
	repo eventWriter
	logg *logger.Logger
}

// NewRecorder constructs an activity recorder.
func NewRecorder(repo *Repository, logg *logger.Logger) Recorder {
	return &recorder{repo: repo, logg: logg}
}

// Record persists the event, swallowing any failure.
func (r *recorder) Record(ctx context.Context, event Event) {
	row := &models.ActivityEvent{
		TenantID: event.TenantID,
		OfferID:  event.OfferID,
		ActorID:  event.ActorID,
		Action:   event.Action,
	}
	if len(event.Payload) > 0 {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			r.logg.Error(ctx, "marshaling activity payload", err)
			return
		}
		row.Payload = raw
	}

	if err := r.repo.Create(ctx, row); err != nil {
		r.logg.Error(ctx, "recording activity event", err)
	}
}

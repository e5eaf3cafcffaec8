package checklists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes client-owned checklist management. The default set is
// seeded by the onboarding dispatcher; everything here is the client's own
// editing surface afterwards.
type Service interface {
	List(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.ChecklistEntry, error)
	Add(ctx context.Context, tenantID, clientID uuid.UUID, input AddEntryInput) (*models.ChecklistEntry, error)
	Complete(ctx context.Context, tenantID, clientID, entryID, actorID uuid.UUID) (*models.ChecklistEntry, error)
}

// AddEntryInput holds the validated payload to add a checklist entry.
type AddEntryInput struct {
	Title       string
	Description *string
}

type entryStore interface {
	ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.ChecklistEntry, error)
	FindByID(ctx context.Context, tenantID, clientID, entryID uuid.UUID) (*models.ChecklistEntry, error)
	Create(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error)
	Update(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error)
}

type clientChecker interface {
	Exists(ctx context.Context, tenantID, clientID uuid.UUID) (bool, error)
}

type service struct {
	repo       entryStore
	clientRepo clientChecker
	now        func() time.Time
}

// NewService constructs a checklist service instance.
func NewService(repo *Repository, clientRepo clientChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checklist repository required")
	}
	if clientRepo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo, clientRepo: clientRepo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.ChecklistEntry, error) {
	if err := s.ensureClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing checklist entries")
	}
	return entries, nil
}

func (s *service) Add(ctx context.Context, tenantID, clientID uuid.UUID, input AddEntryInput) (*models.ChecklistEntry, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if err := s.ensureClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}

	entry := &models.ChecklistEntry{
		TenantID:    tenantID,
		ClientID:    clientID,
		Title:       title,
		Description: input.Description,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating checklist entry")
	}
	return created, nil
}

func (s *service) Complete(ctx context.Context, tenantID, clientID, entryID, actorID uuid.UUID) (*models.ChecklistEntry, error) {
	entry, err := s.repo.FindByID(ctx, tenantID, clientID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checklist entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading checklist entry")
	}
	if entry.Done {
		return entry, nil
	}

	completedAt := s.now().UTC()
	entry.Done = true
	entry.CompletedAt = &completedAt
	entry.CompletedBy = &actorID

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing checklist entry")
	}
	return updated, nil
}

func (s *service) ensureClient(ctx context.Context, tenantID, clientID uuid.UUID) error {
	ok, err := s.clientRepo.Exists(ctx, tenantID, clientID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking client")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	return nil
}

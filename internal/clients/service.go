package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	pkgerrors "github.com/mgilberte/opsdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes tenant client management.
type Service interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error)
	Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error)
	Create(ctx context.Context, tenantID uuid.UUID, input CreateClientInput) (*models.Client, error)
}

// CreateClientInput holds the validated payload to create a client.
type CreateClientInput struct {
	DisplayName string
	Email       string
}

type clientStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error)
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
}

type service struct {
	repo clientStore
}

// NewService constructs a client service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	out, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing clients")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading client")
	}
	return client, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	client := &models.Client{
		TenantID:    tenantID,
		DisplayName: name,
		Email:       strings.TrimSpace(input.Email),
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating client")
	}
	return created, nil
}

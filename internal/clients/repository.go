package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires client persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a client scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		First(&client, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Exists reports whether the client belongs to the tenant.
func (r *Repository) Exists(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	_, err := r.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByTenant returns the tenant's clients ordered by display name.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	var out []models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("display_name asc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new client row.
func (r *Repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

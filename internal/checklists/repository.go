package checklists

import (
	"context"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires checklist entry persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountByClient returns the number of checklist entries the client has.
func (r *Repository) CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ChecklistEntry{}).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByClient returns the client's entries in insertion order.
func (r *Repository) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.ChecklistEntry, error) {
	var entries []models.ChecklistEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByID loads a single entry scoped to the tenant and client.
func (r *Repository) FindByID(ctx context.Context, tenantID, clientID, entryID uuid.UUID) (*models.ChecklistEntry, error) {
	var entry models.ChecklistEntry
	if err := r.db.WithContext(ctx).
		First(&entry, "id = ? AND tenant_id = ? AND client_id = ?", entryID, tenantID, clientID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateBatch inserts the provided entries in one statement.
func (r *Repository) CreateBatch(ctx context.Context, entries []models.ChecklistEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// Create inserts a single entry.
func (r *Repository) Create(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Update persists changes to an existing entry.
func (r *Repository) Update(ctx context.Context, entry *models.ChecklistEntry) (*models.ChecklistEntry, error) {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

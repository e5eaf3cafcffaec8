package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/db/models"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	"gorm.io/gorm"
)

// tokenUniqueIndex is the constraint name guarding token uniqueness.
const tokenUniqueIndex = "idx_offers_token"

// Repository wires offer persistence. The status-guarded updates are the
// heart of the lifecycle: they only take effect when the row is still in the
// expected state at write time.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateDraft persists the offer row and its items in one transaction.
// Partial persistence is never observable.
func (r *Repository) CreateDraft(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := offer.Items
		offer.Items = nil
		if err := tx.Create(offer).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OfferID = offer.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		offer.Items = items
		return nil
	})
}

// FindByID loads an offer with its items, scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, offerID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&offer, "id = ? AND tenant_id = ?", offerID, tenantID).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// FindByToken loads an offer by its acceptance token, with the client
// preloaded for the public response.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).
		Preload("Client").
		First(&offer, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListByTenant returns the tenant's offers, newest first.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Offer, error) {
	var out []models.Offer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSent performs the draft→sent transition as a conditional update. The
// write only lands if the row is still in draft; the caller inspects the
// affected-row count to detect a lost race. A token uniqueness violation
// surfaces as an error for the caller's retry loop.
func (r *Repository) MarkSent(ctx context.Context, tenantID, offerID uuid.UUID, token string, sentAt, validUntil time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND tenant_id = ? AND status = ?", offerID, tenantID, enums.OfferStatusDraft).
		Updates(map[string]any{
			"status":      enums.OfferStatusSent,
			"token":       token,
			"sent_at":     sentAt,
			"valid_until": validUntil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AcceptByToken performs the sent→accepted transition as a conditional
// update keyed by token. Under concurrent attempts exactly one caller
// observes RowsAffected == 1. Rows past their validity window never match,
// even when the expiry sweep has not caught up with them yet.
func (r *Repository) AcceptByToken(ctx context.Context, token string, acceptedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("token = ? AND status = ? AND (valid_until IS NULL OR valid_until >= ?)",
			token, enums.OfferStatusSent, acceptedAt).
		Updates(map[string]any{
			"status":      enums.OfferStatusAccepted,
			"accepted_at": acceptedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ExpireDue moves sent offers past their validity window to expired.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", enums.OfferStatusSent, now).
		Update("status", enums.OfferStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

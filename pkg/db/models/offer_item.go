package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferItem is a snapshotted line on an offer. Name, description, and prices
// are frozen copies taken from the catalog at draft time.
type OfferItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OfferID       uuid.UUID       `gorm:"column:offer_id;type:uuid;not null;index" json:"offerId"`
	CatalogItemID uuid.UUID       `gorm:"column:catalog_item_id;type:uuid;not null" json:"catalogItemId"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Description   *string         `gorm:"column:description" json:"description,omitempty"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"lineTotal"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Offer *Offer `gorm:"foreignKey:OfferID" json:"-"`
}

// TableName overrides the default GORM table name.
func (OfferItem) TableName() string {
	return "offer_items"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer is a priced proposal sent to a client. Line prices are snapshotted
// at draft time, so later catalog edits never change an existing offer.
type Offer struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenantId"`
	ClientID   uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index" json:"clientId"`
	CreatedBy  uuid.UUID         `gorm:"column:created_by;type:uuid;not null" json:"createdBy"`
	Status     enums.OfferStatus `gorm:"column:status;type:text;not null;default:'draft';index" json:"status"`
	NetTotal   decimal.Decimal   `gorm:"column:net_total;type:numeric(12,2);not null" json:"netTotal"`
	Token      *string           `gorm:"column:token;uniqueIndex" json:"-"`
	SentAt     *time.Time        `gorm:"column:sent_at" json:"sentAt,omitempty"`
	ValidUntil *time.Time        `gorm:"column:valid_until" json:"validUntil,omitempty"`
	AcceptedAt *time.Time        `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt    `gorm:"column:deleted_at;index" json:"-"`

	Tenant *Tenant     `gorm:"foreignKey:TenantID" json:"-"`
	Client *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []OfferItem `gorm:"foreignKey:OfferID" json:"items,omitempty"`
}

// TableName overrides the default GORM table name.
func (Offer) TableName() string {
	return "offers"
}

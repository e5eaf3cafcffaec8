package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChecklistEntry is an onboarding task attached to a client. A fixed default
// set is seeded after the client's first accepted offer; clients manage
// entries freely afterwards.
type ChecklistEntry struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenantId"`
	ClientID    uuid.UUID      `gorm:"column:client_id;type:uuid;not null;index" json:"clientId"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	Done        bool           `gorm:"column:done;not null;default:false" json:"done"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CompletedBy *uuid.UUID     `gorm:"column:completed_by;type:uuid" json:"completedBy,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
}

// TableName overrides the default GORM table name.
func (ChecklistEntry) TableName() string {
	return "checklist_entries"
}

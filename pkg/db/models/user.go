package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
	"gorm.io/gorm"
)

// User is a tenant member who authenticates against the private API.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  uuid.UUID        `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenantId"`
	Email     string           `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name      string           `gorm:"column:name;not null" json:"name"`
	Role      enums.MemberRole `gorm:"column:role;type:text;not null;default:'member'" json:"role"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt   `gorm:"column:deleted_at;index" json:"-"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// TableName overrides the default GORM table name.
func (User) TableName() string {
	return "users"
}

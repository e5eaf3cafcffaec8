package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mgilberte/opsdeck-backend/pkg/enums"
)

// ActivityEvent is an append-only audit record for offer lifecycle changes.
type ActivityEvent struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenantId"`
	OfferID   *uuid.UUID           `gorm:"column:offer_id;type:uuid;index" json:"offerId,omitempty"`
	ActorID   *uuid.UUID           `gorm:"column:actor_id;type:uuid" json:"actorId,omitempty"`
	Action    enums.ActivityAction `gorm:"column:action;type:text;not null" json:"action"`
	Payload   json.RawMessage      `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName overrides the default GORM table name.
func (ActivityEvent) TableName() string {
	return "activity_events"
}

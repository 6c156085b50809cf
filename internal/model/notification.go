package model

import (
	"time"

	"github.com/google/uuid"
)

type Audience string

const (
	AudienceAdmin  Audience = "ADMIN"
	AudienceClient Audience = "CLIENT"
)

// Notification is an advisory message for staff or for a portal client.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Audience    Audience   `gorm:"type:varchar(10);not null;index" json:"audience"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	WorkOrderID *uuid.UUID `gorm:"type:uuid;index" json:"work_order_id,omitempty"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Read        bool       `gorm:"default:false;not null;index" json:"read"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

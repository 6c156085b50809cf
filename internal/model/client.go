package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a shop customer. FiscalID (NIT/cédula) is the natural key.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FiscalID  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"fiscal_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

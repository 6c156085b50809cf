package model

import (
	"time"

	"github.com/google/uuid"
)

type TaxonomyKind string

const (
	TaxonomyBrand         TaxonomyKind = "BRAND"
	TaxonomyCategory      TaxonomyKind = "CATEGORY"
	TaxonomyEquipmentType TaxonomyKind = "EQUIPMENT_TYPE"
)

// TaxonomyValue is one user-extensible vocabulary entry. NormalizedValue is
// the lower-cased value and carries the uniqueness constraint.
type TaxonomyValue struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind            TaxonomyKind `gorm:"type:varchar(30);not null;uniqueIndex:idx_taxonomy_kind_value" json:"kind"`
	Value           string       `gorm:"type:varchar(100);not null" json:"value"`
	NormalizedValue string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_taxonomy_kind_value" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
}

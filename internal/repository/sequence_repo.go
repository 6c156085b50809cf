package repository

import (
	"context"

	"repairshop/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const WorkOrderSequence = "work_order_display_id"

// SequenceRepository hands out strictly increasing numbers per counter name.
type SequenceRepository interface {
	// Next returns the next value of the named counter, starting at start.
	Next(ctx context.Context, name string, start int64) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, name string, start int64) (int64, error) {
	db := GetDB(ctx, r.db)

	// Seed the row once; concurrent seeders collapse onto the same key.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Sequence{Name: name, Value: start - 1}).Error; err != nil {
		return 0, err
	}

	var seq model.Sequence
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, translate(err)
	}

	seq.Value++
	if err := db.Model(&model.Sequence{}).Where("name = ?", name).Update("value", seq.Value).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

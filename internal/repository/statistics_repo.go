package repository

import (
	"context"
	"fmt"
	"time"

	"repairshop/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsRepository aggregates the ledger and the work-order board.
type StatisticsRepository interface {
	SumByType(ctx context.Context, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, txType model.TransactionType, start, end time.Time) ([]model.CategoryTotal, error)
	CountWorkOrdersByStatus(ctx context.Context) ([]model.StatusCount, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) SumByType(ctx context.Context, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Value decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("type = ? AND date >= ? AND date <= ?", txType, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s transactions: %w", txType, err)
	}
	return result.Value, nil
}

func (r *statisticsRepository) SumByCategory(ctx context.Context, txType model.TransactionType, start, end time.Time) ([]model.CategoryTotal, error) {
	var totals []model.CategoryTotal
	if err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Select("category, SUM(amount) as total").
		Where("type = ? AND date >= ? AND date <= ?", txType, start, end).
		Group("category").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to group transactions by category: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) CountWorkOrdersByStatus(ctx context.Context) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	if err := GetDB(ctx, r.db).Model(&model.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count work orders: %w", err)
	}
	return counts, nil
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"repairshop/internal/model"
	"repairshop/internal/repository"
)

type transactionRepo struct{ s *Store }

func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s: s} }

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.s.do(ctx, func() error {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = time.Now()
		}
		r.s.transactions = append(r.s.transactions, *tx)
		return nil
	})
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var out *model.Transaction
	err := r.s.do(ctx, func() error {
		for _, tx := range r.s.transactions {
			if tx.ID == id {
				tx := tx
				out = &tx
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter, page, limit int) ([]model.Transaction, int64, error) {
	var matched []model.Transaction
	_ = r.s.do(ctx, func() error {
		for _, tx := range r.s.transactions {
			if filter.Type != "" && tx.Type != filter.Type {
				continue
			}
			if filter.WorkOrderID != nil && (tx.WorkOrderID == nil || *tx.WorkOrderID != *filter.WorkOrderID) {
				continue
			}
			if filter.From != nil && tx.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && tx.Date.After(*filter.To) {
				continue
			}
			matched = append(matched, tx)
		}
		return nil
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, page, limit), int64(len(matched)), nil
}

type statisticsRepo struct{ s *Store }

func (s *Store) Statistics() repository.StatisticsRepository { return &statisticsRepo{s: s} }

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func (r *statisticsRepo) SumByType(ctx context.Context, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	_ = r.s.do(ctx, func() error {
		for _, tx := range r.s.transactions {
			if tx.Type == txType && inRange(tx.Date, start, end) {
				sum = sum.Add(tx.Amount)
			}
		}
		return nil
	})
	return sum, nil
}

func (r *statisticsRepo) SumByCategory(ctx context.Context, txType model.TransactionType, start, end time.Time) ([]model.CategoryTotal, error) {
	byCategory := make(map[string]decimal.Decimal)
	_ = r.s.do(ctx, func() error {
		for _, tx := range r.s.transactions {
			if tx.Type == txType && inRange(tx.Date, start, end) {
				byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
			}
		}
		return nil
	})

	totals := make([]model.CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, model.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Total.GreaterThan(totals[j].Total) })
	return totals, nil
}

func (r *statisticsRepo) CountWorkOrdersByStatus(ctx context.Context) ([]model.StatusCount, error) {
	byStatus := make(map[model.Status]int64)
	_ = r.s.do(ctx, func() error {
		for _, order := range r.s.workOrders {
			byStatus[order.Status]++
		}
		return nil
	})

	counts := make([]model.StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		counts = append(counts, model.StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

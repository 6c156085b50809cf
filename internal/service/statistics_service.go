package service

import (
	"context"
	"time"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/repository"
	"repairshop/pkg/money"

	"github.com/hashicorp/go-multierror"
)

type StatisticsService interface {
	GetAccountingSummary(ctx context.Context, startDate, endDate time.Time) (model.AccountingSummary, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetAccountingSummary totals income and expense between two inclusive instants
// and snapshots the current work-order board.
func (s *statisticsService) GetAccountingSummary(ctx context.Context, startDate, endDate time.Time) (model.AccountingSummary, error) {
	if endDate.Before(startDate) {
		return model.AccountingSummary{}, apperror.Validation("end date must not be before start date")
	}

	summary := model.AccountingSummary{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	var errs *multierror.Error
	var err error
	if summary.TotalIngreso, err = s.repo.SumByType(ctx, model.TransactionIngreso, startDate, endDate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if summary.TotalEgreso, err = s.repo.SumByType(ctx, model.TransactionEgreso, startDate, endDate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if summary.EgresoByCategory, err = s.repo.SumByCategory(ctx, model.TransactionEgreso, startDate, endDate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if summary.WorkOrdersByStatus, err = s.repo.CountWorkOrdersByStatus(ctx); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return model.AccountingSummary{}, err
	}

	summary.Net = summary.TotalIngreso.Sub(summary.TotalEgreso)
	summary.Formatted = map[string]string{
		"total_ingreso": money.FormatCOP(summary.TotalIngreso),
		"total_egreso":  money.FormatCOP(summary.TotalEgreso),
		"net":           money.FormatCOP(summary.Net),
	}
	return summary, nil
}

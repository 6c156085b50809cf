package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingSummary aggregates ledger totals over a date range
type AccountingSummary struct {
	TotalIngreso       decimal.Decimal   `json:"total_ingreso"`
	TotalEgreso        decimal.Decimal   `json:"total_egreso"`
	Net                decimal.Decimal   `json:"net"`
	EgresoByCategory   []CategoryTotal   `json:"egreso_by_category"`
	WorkOrdersByStatus []StatusCount     `json:"work_orders_by_status"`
	TimeRangeStartDate time.Time         `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time         `json:"time_range_end_date"`
	Formatted          map[string]string `json:"formatted"`
}

// CategoryTotal is a ledger total per transaction category
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// StatusCount counts work orders currently in a status
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

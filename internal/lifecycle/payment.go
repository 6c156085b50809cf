package lifecycle

import (
	"github.com/shopspring/decimal"

	"repairshop/internal/model"
)

// PaymentStatusFor derives the payment status from the amount paid so far.
// A zero balance keeps the current status.
func PaymentStatusFor(totalPaid, grandTotal decimal.Decimal, current model.PaymentStatus) model.PaymentStatus {
	switch {
	case totalPaid.IsPositive() && totalPaid.GreaterThanOrEqual(grandTotal):
		return model.PaymentPaid
	case totalPaid.IsPositive():
		return model.PaymentPartial
	default:
		if current == "" {
			return model.PaymentPending
		}
		return current
	}
}

// ReconcilePayment folds one income amount into the order and returns the
// payment-only patch to apply through PlanUpdate.
func ReconcilePayment(order model.WorkOrder, amount decimal.Decimal) Patch {
	paid := order.TotalPaidAmount.Add(amount)
	status := PaymentStatusFor(paid, OrderTotals(order).GrandTotal, order.PaymentStatus)
	return Patch{
		TotalPaidAmount: &paid,
		PaymentStatus:   &status,
	}
}

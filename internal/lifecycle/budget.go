package lifecycle

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"repairshop/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals is the computed budget of a work order. Values are exact; rounding
// to whole pesos happens only when formatting for display.
type Totals struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	OverallDiscountAmount decimal.Decimal `json:"overall_discount_amount"`
	TaxableAmount         decimal.Decimal `json:"taxable_amount"`
	IvaAmount             decimal.Decimal `json:"iva_amount"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
}

// LineNet returns quantity x unit price less the item's own discount.
func LineNet(item model.BudgetItem) decimal.Decimal {
	lineTotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
	if item.DiscountPercentage == nil {
		return lineTotal
	}
	return lineTotal.Sub(percentOf(lineTotal, *item.DiscountPercentage))
}

// ComputeBudget totals items with an order-level discount and IVA.
// Percentages are expected in [0,100]; they are not clamped here.
func ComputeBudget(items []model.BudgetItem, overallDiscountPercentage, ivaPercentage decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineNet(item))
	}

	discount := percentOf(subtotal, overallDiscountPercentage)
	taxable := subtotal.Sub(discount)
	iva := percentOf(taxable, ivaPercentage)

	return Totals{
		Subtotal:              subtotal,
		OverallDiscountAmount: discount,
		TaxableAmount:         taxable,
		IvaAmount:             iva,
		GrandTotal:            taxable.Add(iva),
	}
}

// OrderTotals computes the budget of an existing work order.
func OrderTotals(order model.WorkOrder) Totals {
	return ComputeBudget(order.BudgetItems, order.OverallDiscountPercentage, order.IvaPercentage)
}

// ValidateBudget checks every line and both order-level percentages, reporting
// all problems at once.
func ValidateBudget(items []model.BudgetItem, overallDiscountPercentage, ivaPercentage decimal.Decimal) error {
	var result *multierror.Error

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			result = multierror.Append(result, fmt.Errorf("budget item %d: name is required", i+1))
		}
		if item.Quantity < 0 {
			result = multierror.Append(result, fmt.Errorf("budget item %d: quantity must not be negative", i+1))
		}
		if item.UnitPrice.IsNegative() {
			result = multierror.Append(result, fmt.Errorf("budget item %d: unit price must not be negative", i+1))
		}
		if item.DiscountPercentage != nil && !inPercentRange(*item.DiscountPercentage) {
			result = multierror.Append(result, fmt.Errorf("budget item %d: discount must be between 0 and 100", i+1))
		}
	}
	if !inPercentRange(overallDiscountPercentage) {
		result = multierror.Append(result, fmt.Errorf("overall discount must be between 0 and 100"))
	}
	if !inPercentRange(ivaPercentage) {
		result = multierror.Append(result, fmt.Errorf("iva must be between 0 and 100"))
	}

	return result.ErrorOrNil()
}

func percentOf(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Shift(-2)
}

func inPercentRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

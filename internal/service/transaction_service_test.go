package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
)

func pay(t *testing.T, f *fixture, orderID, amount string) {
	t.Helper()
	_, err := f.ledger.CreateTransaction(f.ctx, staffID, CreateTransactionRequest{
		Type:        string(model.TransactionIngreso),
		Amount:      dec(amount),
		WorkOrderID: strPtr(orderID),
	})
	require.NoError(t, err)
}

func TestCreateTransaction_PaymentsReconcileCommutatively(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	budget := BudgetItemRequest{Name: "Motherboard repair", Quantity: 1, UnitPrice: dec("100000"), IsService: true}

	ab := f.order(c.ID.String(), budget)
	ba := f.order(c.ID.String(), budget)

	pay(t, f, ab.ID.String(), "30000")
	pay(t, f, ab.ID.String(), "70000")
	pay(t, f, ba.ID.String(), "70000")
	pay(t, f, ba.ID.String(), "30000")

	first, err := f.orders.GetWorkOrder(f.ctx, ab.ID.String())
	require.NoError(t, err)
	second, err := f.orders.GetWorkOrder(f.ctx, ba.ID.String())
	require.NoError(t, err)

	assert.True(t, dec("100000").Equal(first.TotalPaidAmount))
	assert.True(t, first.TotalPaidAmount.Equal(second.TotalPaidAmount))
	assert.Equal(t, model.PaymentPaid, first.PaymentStatus)
	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	assert.True(t, first.BalanceDue.IsZero())
}

func TestCreateTransaction_PartialPaymentNotifies(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String(), BudgetItemRequest{Name: "Cleaning", Quantity: 1, UnitPrice: dec("80000"), IsService: true})

	entry, err := f.ledger.CreateTransaction(f.ctx, staffID, CreateTransactionRequest{
		Type:        "ingreso",
		Amount:      dec("20000"),
		WorkOrderID: strPtr(order.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryPayment, entry.Category)
	assert.Equal(t, f.clock.Now(), entry.Date)

	stored, err := f.orders.GetWorkOrder(f.ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, stored.PaymentStatus)
	assert.True(t, dec("60000").Equal(stored.BalanceDue))

	var found bool
	for _, n := range f.adminNotes() {
		if strings.Contains(n.Message, "Payment status of OT-1001") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCreateTransaction_ExpenseLeavesPaymentAlone(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String(), BudgetItemRequest{Name: "Cleaning", Quantity: 1, UnitPrice: dec("80000"), IsService: true})

	entry, err := f.ledger.CreateTransaction(f.ctx, staffID, CreateTransactionRequest{
		Type:        string(model.TransactionEgreso),
		Amount:      dec("15000"),
		Description: "Courier",
		WorkOrderID: strPtr(order.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryManual, entry.Category)

	stored, err := f.orders.GetWorkOrder(f.ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, stored.PaymentStatus)
	assert.True(t, stored.TotalPaidAmount.IsZero())
}

func TestCreateTransaction_Validation(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		req  CreateTransactionRequest
		kind apperror.Kind
	}{
		{"zero amount", CreateTransactionRequest{Type: "INGRESO", Amount: decimal.Zero}, apperror.KindValidation},
		{"negative amount", CreateTransactionRequest{Type: "EGRESO", Amount: dec("-5")}, apperror.KindValidation},
		{"unknown type", CreateTransactionRequest{Type: "REFUND", Amount: dec("5")}, apperror.KindValidation},
		{"bad order id", CreateTransactionRequest{Type: "INGRESO", Amount: dec("5"), WorkOrderID: strPtr("nope")}, apperror.KindValidation},
		{"unknown order", CreateTransactionRequest{Type: "INGRESO", Amount: dec("5"), WorkOrderID: strPtr("0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01")}, apperror.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateTransaction(f.ctx, staffID, tt.req)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.kind), err.Error())
		})
	}

	assert.Empty(t, f.transactions(""))
}

func TestListTransactions_FiltersByOrder(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String(), BudgetItemRequest{Name: "Cleaning", Quantity: 1, UnitPrice: dec("80000"), IsService: true})

	pay(t, f, order.ID.String(), "10000")
	_, err := f.ledger.CreateTransaction(f.ctx, staffID, CreateTransactionRequest{Type: "EGRESO", Amount: dec("5000"), Description: "Rent"})
	require.NoError(t, err)

	list, total, err := f.ledger.ListTransactions(f.ctx, TransactionListQuery{WorkOrderID: &order.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, dec("10000").Equal(list[0].Amount))
}

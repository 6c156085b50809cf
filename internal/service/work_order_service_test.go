package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
)

func TestCreateWorkOrder_RequiresSerial(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	_, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:        c.ID.String(),
		EquipmentSerial: "   ",
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	orders, total, err := f.orders.ListWorkOrders(f.ctx, WorkOrderListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestCreateWorkOrder_DefaultsAndSequentialDisplayIDs(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	first := f.order(c.ID.String())
	second := f.order(c.ID.String())

	assert.Equal(t, "OT-1001", first.DisplayID)
	assert.Equal(t, "OT-1002", second.DisplayID)
	assert.Equal(t, model.AreaIntake, first.Area)
	assert.Equal(t, model.StatusPendingDiagnosis, first.Status)
	assert.Equal(t, model.PaymentPending, first.PaymentStatus)
	assert.Equal(t, "Ana Ruiz", first.ClientName)
	assert.Equal(t, f.clock.Now(), first.CreatedAt)
}

func TestCreateWorkOrder_UnknownClient(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:        "0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01",
		EquipmentSerial: "SN-1",
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// a failed create must not burn a display number
	c := f.client("900123", "Ana Ruiz")
	assert.Equal(t, "OT-1001", f.order(c.ID.String()).DisplayID)
}

func TestCreateWorkOrder_ReturnsBudgetTotals(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	ten := dec("10")
	order, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:        c.ID.String(),
		EquipmentSerial: "SN-1",
		BudgetItems: []BudgetItemRequest{
			{Name: "Screen", Quantity: 2, UnitPrice: dec("100000")},
			{Name: "Labor", Quantity: 1, UnitPrice: dec("50000"), IsService: true, DiscountPercentage: &ten},
		},
		OverallDiscountPercentage: dec("5"),
		IvaPercentage:             dec("19"),
	})
	require.NoError(t, err)

	assert.True(t, dec("276972.5").Equal(order.Budget.GrandTotal))
	assert.Equal(t, "$276.973", order.GrandTotalDisplay)
	assert.True(t, order.BalanceDue.Equal(order.Budget.GrandTotal))
	for _, item := range order.BudgetItems {
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", item.ID.String())
	}
}

func TestCreateWorkOrder_RejectsInvalidBudget(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	_, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:        c.ID.String(),
		EquipmentSerial: "SN-1",
		BudgetItems:     []BudgetItemRequest{{Name: "Screen", Quantity: 1, UnitPrice: dec("-1")}},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateWorkOrder_ConvertsScheduledService(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	svc, err := f.queue.CreateScheduledService(f.ctx, staffID, "", CreateScheduledServiceRequest{
		ClientID:    c.ID.String(),
		Description: "Yearly printer maintenance",
	})
	require.NoError(t, err)

	order, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:           c.ID.String(),
		EquipmentSerial:    "PRN-77",
		ScheduledServiceID: strPtr(svc.ID.String()),
	})
	require.NoError(t, err)

	converted, err := f.queue.GetScheduledService(f.ctx, svc.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduledConverted, converted.Status)
	require.NotNil(t, converted.WorkOrderID)
	assert.Equal(t, order.ID, *converted.WorkOrderID)
	require.NotNil(t, order.ScheduledServiceID)
	assert.Equal(t, svc.ID, *order.ScheduledServiceID)

	notes := f.adminNotes()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Ana Ruiz")
	assert.Contains(t, notes[0].Message, "OT-1001")

	f.sink.AssertCalled(t, "Send", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.ID == notes[0].ID
	}))
}

func TestCreateWorkOrder_RejectsTerminalScheduledService(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	svc, err := f.queue.CreateScheduledService(f.ctx, staffID, "", CreateScheduledServiceRequest{
		ClientID:    c.ID.String(),
		Description: "Visit",
	})
	require.NoError(t, err)
	_, err = f.queue.UpdateScheduledService(f.ctx, staffID, svc.ID.String(), UpdateScheduledServiceRequest{
		Status: strPtr(string(model.ScheduledCancelled)),
	})
	require.NoError(t, err)

	_, err = f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:           c.ID.String(),
		EquipmentSerial:    "SN-1",
		ScheduledServiceID: strPtr(svc.ID.String()),
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, total, err := f.orders.ListWorkOrders(f.ctx, WorkOrderListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateWorkOrder_MissingScheduledService(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")

	_, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:           c.ID.String(),
		EquipmentSerial:    "SN-1",
		ScheduledServiceID: strPtr("0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01"),
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateWorkOrder_UnknownID(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.move("0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01", model.AreaIntake, model.StatusInProgress)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateWorkOrder_RepairDeductsStockOnce(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	part := f.item("SCR-15", 5, "1000")

	order := f.order(c.ID.String(),
		BudgetItemRequest{Name: "Screen", Quantity: 2, UnitPrice: dec("90000"), InventoryItemID: strPtr(part.ID.String())},
		BudgetItemRequest{Name: "Labor", Quantity: 1, UnitPrice: dec("40000"), IsService: true},
	)

	_, err := f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusRepaired)
	require.NoError(t, err)

	got, err := f.stock.GetItem(f.ctx, part.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	movements, err := f.stock.Movements(f.ctx, part.ID.String())
	require.NoError(t, err)
	var sales []model.InventoryMovement
	for _, m := range movements {
		if m.MovementType == model.MovementSale {
			sales = append(sales, m)
		}
	}
	require.Len(t, sales, 1)
	assert.Equal(t, -2, sales[0].QuantityChanged)
	assert.Equal(t, 3, sales[0].StockAfter)
	require.NotNil(t, sales[0].WorkOrderID)
	assert.Equal(t, order.ID, *sales[0].WorkOrderID)

	// moving between resolved statuses does not deduct again
	_, err = f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusNoSolutionFound)
	require.NoError(t, err)
	_, err = f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusRepaired)
	require.NoError(t, err)

	got, err = f.stock.GetItem(f.ctx, part.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestUpdateWorkOrder_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	part := f.item("BAT-01", 1, "0")

	order := f.order(c.ID.String(),
		BudgetItemRequest{Name: "Battery", Quantity: 2, UnitPrice: dec("80000"), InventoryItemID: strPtr(part.ID.String())},
	)

	_, err := f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusRepaired)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStockConstraint))
	assert.Contains(t, err.Error(), "current 1, requested 2")

	stored, err := f.orders.GetWorkOrder(f.ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingDiagnosis, stored.Status)

	got, err := f.stock.GetItem(f.ctx, part.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.Len(t, f.adminNotes(), 0)
}

func TestUpdateWorkOrder_MissingInventoryItemIsSkipped(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	part := f.item("FAN-02", 4, "0")

	order := f.order(c.ID.String(),
		BudgetItemRequest{Name: "Fan", Quantity: 1, UnitPrice: dec("30000"), InventoryItemID: strPtr(part.ID.String())},
	)
	require.NoError(t, f.stock.DeleteItem(f.ctx, staffID, part.ID.String()))

	updated, err := f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusRepaired)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRepaired, updated.Status)
}

func TestUpdateWorkOrder_DeliveryIsRecordedOnce(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	part := f.item("SSD-512", 10, "120000")

	order := f.order(c.ID.String(),
		BudgetItemRequest{Name: "SSD", Quantity: 2, UnitPrice: dec("250000"), InventoryItemID: strPtr(part.ID.String())},
		BudgetItemRequest{Name: "Install", Quantity: 1, UnitPrice: dec("30000"), IsService: true},
	)
	_, err := f.move(order.ID.String(), model.AreaReadyForPickup, model.StatusRepaired)
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	deliveredAt := f.clock.Now()
	delivered, err := f.move(order.ID.String(), model.AreaCompletedHistory, model.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveryDate)
	assert.Equal(t, deliveredAt, *delivered.DeliveryDate)

	cogs := f.transactions(model.CategoryCostOfGoods)
	require.Len(t, cogs, 1)
	assert.Equal(t, model.TransactionEgreso, cogs[0].Type)
	assert.True(t, dec("240000").Equal(cogs[0].Amount))
	assert.Contains(t, cogs[0].Description, "OT-1001")

	f.clock.Advance(24 * time.Hour)
	_, err = f.move(order.ID.String(), model.AreaCompletedHistory, model.StatusInStorage)
	require.NoError(t, err)
	again, err := f.move(order.ID.String(), model.AreaCompletedHistory, model.StatusDelivered)
	require.NoError(t, err)

	require.NotNil(t, again.DeliveryDate)
	assert.Equal(t, deliveredAt, *again.DeliveryDate)
	assert.Len(t, f.transactions(model.CategoryCostOfGoods), 1)
}

func TestUpdateWorkOrder_IllegalPairWarnsByDefault(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String())

	updated, err := f.move(order.ID.String(), model.AreaIntake, model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, updated.Status)
}

func TestUpdateWorkOrder_IllegalPairRejectedWhenStrict(t *testing.T) {
	f := newFixture(t, true)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String())

	_, err := f.move(order.ID.String(), model.AreaIntake, model.StatusDelivered)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := f.orders.GetWorkOrder(f.ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingDiagnosis, stored.Status)
}

func TestUpdateWorkOrder_AwaitingApprovalNotifiesClient(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String())

	_, err := f.move(order.ID.String(), model.AreaIntake, model.StatusAwaitingApproval)
	require.NoError(t, err)

	notes, total, err := NewNotifier(f.store.Notifications(), nil).List(f.ctx, model.AudienceClient, &c.ID, false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Contains(t, notes[0].Message, "OT-1001")
}

func TestUpdateWorkOrder_ChangingClientCopiesContactFields(t *testing.T) {
	f := newFixture(t, false)
	first := f.client("900123", "Ana Ruiz")
	second := f.client("900456", "Luis Peña")
	order := f.order(first.ID.String())

	updated, err := f.orders.UpdateWorkOrder(f.ctx, staffID, order.ID.String(), UpdateWorkOrderRequest{
		ClientID: strPtr(second.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.ClientID)
	assert.Equal(t, "Luis Peña", updated.ClientName)
}

func TestDeleteWorkOrder_ReleasesScheduledService(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	svc, err := f.queue.CreateScheduledService(f.ctx, staffID, "", CreateScheduledServiceRequest{
		ClientID:    c.ID.String(),
		Description: "Visit",
	})
	require.NoError(t, err)
	order, err := f.orders.CreateWorkOrder(f.ctx, staffID, CreateWorkOrderRequest{
		ClientID:           c.ID.String(),
		EquipmentSerial:    "SN-1",
		ScheduledServiceID: strPtr(svc.ID.String()),
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteWorkOrder(f.ctx, staffID, order.ID.String()))

	released, err := f.queue.GetScheduledService(f.ctx, svc.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduledPending, released.Status)
	assert.Nil(t, released.WorkOrderID)

	err = f.orders.DeleteWorkOrder(f.ctx, staffID, order.ID.String())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListWorkOrders_ShowsCurrentClientName(t *testing.T) {
	f := newFixture(t, false)
	c := f.client("900123", "Ana Ruiz")
	order := f.order(c.ID.String())

	// warm the directory, then rename
	_, err := f.orders.GetWorkOrder(f.ctx, order.ID.String())
	require.NoError(t, err)
	_, err = f.people.UpdateClient(f.ctx, staffID, c.ID.String(), UpdateClientRequest{Name: strPtr("Ana Ruiz Gómez")})
	require.NoError(t, err)

	orders, _, err := f.orders.ListWorkOrders(f.ctx, WorkOrderListQuery{ClientID: &c.ID})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ana Ruiz Gómez", orders[0].ClientName)

	stored, err := f.store.WorkOrders().FindByID(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz Gómez", stored.ClientName)
}

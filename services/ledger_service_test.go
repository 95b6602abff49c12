package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ekinacar/kafe-adisyon/models"
)

func TestCreateTableDuplicate(t *testing.T) {
	db := setupTestDB(t)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("5", "Window")
	assert.NoError(t, err)

	_, err = ls.CreateTable("5", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOpenTable(t *testing.T) {
	db := setupTestDB(t)
	ls := NewLedgerService(db)

	table, err := ls.CreateTable("1", "")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusEmpty, table.Status)

	opened, err := ls.OpenTable("1")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, opened.Status)
	assert.NotNil(t, opened.OpenedAt)
	assert.Equal(t, 0.0, opened.Balance)

	_, err = ls.OpenTable("1")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = ls.OpenTable("99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddOrderBalanceInvariant(t *testing.T) {
	db := setupTestDB(t)
	tea, coffee := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("5", "")
	assert.NoError(t, err)

	// Balance must match sum(qty*price) after every single call.
	_, table, err := ls.AddOrder("5", tea.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 10.00, table.Balance)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	assert.NotNil(t, table.OpenedAt)

	_, table, err = ls.AddOrder("5", coffee.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, table.Balance)

	_, table, err = ls.AddOrder("5", tea.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, 35.00, table.Balance)

	// Snapshots carry the item's name and price at insertion.
	orders, err := openOrders(db, table.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, "Tea", orders[0].ItemName)
	assert.Equal(t, 5.00, orders[0].UnitPrice)
	assert.Equal(t, 10.00, orders[0].LineTotal)

	// Per-item sales counter moved with the ordered quantities.
	var teaAfter models.MenuItem
	assert.NoError(t, db.First(&teaAfter, tea.ID).Error)
	assert.Equal(t, int64(5), teaAfter.SalesCount)
}

func TestAddOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("1", "")
	assert.NoError(t, err)

	_, _, err = ls.AddOrder("1", tea.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = ls.AddOrder("missing", tea.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = ls.AddOrder("1", 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// Failed calls must not have left any order behind.
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestApplyDiscount(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("2", "")
	assert.NoError(t, err)
	_, _, err = ls.AddOrder("2", tea.ID, 4) // 20.00
	assert.NoError(t, err)

	table, err := ls.ApplyDiscount("2", 25)
	assert.NoError(t, err)
	assert.Equal(t, 25, table.DiscountPct)
	assert.Equal(t, 15.00, table.Balance)

	// Raw line totals stay untouched for audit.
	orders, err := openOrders(db, table.ID)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, orders[0].LineTotal)

	_, err = ls.ApplyDiscount("2", 101)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ls.ApplyDiscount("2", -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestSettleWorkedExample runs the canonical flow: 2xTea@5 + 1xCoffee@10,
// 10% discount, settled cash with 20.00 tendered.
func TestSettleWorkedExample(t *testing.T) {
	db := setupTestDB(t)
	tea, coffee := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("5", "")
	assert.NoError(t, err)
	_, _, err = ls.AddOrder("5", tea.ID, 2)
	assert.NoError(t, err)
	_, table, err := ls.AddOrder("5", coffee.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, table.Balance)

	table, err = ls.ApplyDiscount("5", 10)
	assert.NoError(t, err)
	assert.Equal(t, 18.00, table.Balance)

	receipt, err := ls.Settle("5", 20.00, models.PaymentMethodCash)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, receipt.Subtotal)
	assert.Equal(t, 10, receipt.DiscountPct)
	assert.Equal(t, 18.00, receipt.TotalDue)
	assert.Equal(t, 20.00, receipt.Tendered)
	assert.Equal(t, 2.00, receipt.ChangeDue)
	assert.Len(t, receipt.Lines, 2)

	// The payment row is on record.
	var payment models.Payment
	assert.NoError(t, db.First(&payment, receipt.PaymentID).Error)
	assert.Equal(t, "5", payment.TableNumber)
	assert.Equal(t, 18.00, payment.TotalDue)
	assert.Equal(t, 2.00, payment.ChangeDue)
	assert.Equal(t, models.PaymentMethodCash, payment.Method)

	// Table is fully reset.
	after, orders, err := ls.GetTable("5")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusEmpty, after.Status)
	assert.Equal(t, 0.0, after.Balance)
	assert.Equal(t, 0, after.DiscountPct)
	assert.NotNil(t, after.ClosedAt)
	assert.Empty(t, orders)

	// Order lines were archived against the payment, not purged.
	var archived int64
	db.Model(&models.Order{}).Where("payment_id = ?", receipt.PaymentID).Count(&archived)
	assert.Equal(t, int64(2), archived)
}

func TestSettleInsufficientTender(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("3", "")
	assert.NoError(t, err)
	_, _, err = ls.AddOrder("3", tea.ID, 4) // 20.00
	assert.NoError(t, err)

	_, err = ls.Settle("3", 19.99, models.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Nothing changed: still occupied, orders intact, no payment row.
	table, orders, err := ls.GetTable("3")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	assert.Equal(t, 20.00, table.Balance)
	assert.Len(t, orders, 1)

	var payments int64
	db.Model(&models.Payment{}).Count(&payments)
	assert.Equal(t, int64(0), payments)
}

func TestSettleEdgeCases(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("4", "")
	assert.NoError(t, err)

	_, err = ls.Settle("4", 100, models.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, _, err = ls.AddOrder("4", tea.ID, 1)
	assert.NoError(t, err)

	_, err = ls.Settle("4", 100, "cheque")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ls.Settle("missing", 100, models.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveOrder(t *testing.T) {
	db := setupTestDB(t)
	tea, coffee := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("7", "")
	assert.NoError(t, err)
	o1, _, err := ls.AddOrder("7", tea.ID, 2)
	assert.NoError(t, err)
	_, table, err := ls.AddOrder("7", coffee.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, table.Balance)

	table, err = ls.RemoveOrder(o1.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10.00, table.Balance)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	_, err = ls.RemoveOrder(o1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Removing the last line reverts the table to empty and drops its discount.
func TestRemoveLastOrderRevertsToEmpty(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("8", "")
	assert.NoError(t, err)
	order, _, err := ls.AddOrder("8", tea.ID, 1)
	assert.NoError(t, err)
	_, err = ls.ApplyDiscount("8", 50)
	assert.NoError(t, err)

	table, err := ls.RemoveOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusEmpty, table.Status)
	assert.Equal(t, 0.0, table.Balance)
	assert.Equal(t, 0, table.DiscountPct)
	assert.Nil(t, table.OpenedAt)
}

func TestRemoveSettledOrderRejected(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("9", "")
	assert.NoError(t, err)
	order, _, err := ls.AddOrder("9", tea.ID, 1)
	assert.NoError(t, err)
	_, err = ls.Settle("9", 5.00, models.PaymentMethodCard)
	assert.NoError(t, err)

	_, err = ls.RemoveOrder(order.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTransferOrders(t *testing.T) {
	db := setupTestDB(t)
	tea, coffee := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("A", "")
	assert.NoError(t, err)
	_, err = ls.CreateTable("B", "")
	assert.NoError(t, err)

	_, _, err = ls.AddOrder("A", tea.ID, 2)
	assert.NoError(t, err)
	_, table, err := ls.AddOrder("A", coffee.ID, 1)
	assert.NoError(t, err)
	prior := table.Balance

	src, dst, err := ls.TransferOrders("A", "B")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusEmpty, src.Status)
	assert.Equal(t, 0.0, src.Balance)
	assert.Equal(t, models.TableStatusOccupied, dst.Status)
	assert.Equal(t, prior, dst.Balance)

	orders, err := openOrders(db, dst.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestTransferOrdersValidation(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("A", "")
	assert.NoError(t, err)
	_, err = ls.CreateTable("B", "")
	assert.NoError(t, err)

	_, _, err = ls.TransferOrders("A", "A")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = ls.TransferOrders("A", "B")
	assert.ErrorIs(t, err, ErrConflict) // empty source

	_, _, err = ls.TransferOrders("A", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Settled lines stay with the original table.
	_, _, err = ls.AddOrder("A", tea.ID, 1)
	assert.NoError(t, err)
	_, err = ls.Settle("A", 5, models.PaymentMethodCash)
	assert.NoError(t, err)
	_, _, err = ls.TransferOrders("A", "B")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("10", "")
	assert.NoError(t, err)
	_, _, err = ls.AddOrder("10", tea.ID, 1)
	assert.NoError(t, err)

	err = ls.DeleteTable("10")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = ls.Settle("10", 5, models.PaymentMethodCash)
	assert.NoError(t, err)

	assert.NoError(t, ls.DeleteTable("10"))

	err = ls.DeleteTable("10")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshTableStatuses(t *testing.T) {
	db := setupTestDB(t)
	tea, _ := seedMenu(t, db)
	ls := NewLedgerService(db)

	_, err := ls.CreateTable("1", "")
	assert.NoError(t, err)
	_, err = ls.CreateTable("2", "")
	assert.NoError(t, err)

	order, _, err := ls.AddOrder("1", tea.ID, 1)
	assert.NoError(t, err)

	// Fresh order: nothing to change.
	changed, err := ls.RefreshTableStatuses(30 * time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 0, changed)

	// Age the order past the threshold.
	stale := time.Now().Add(-45 * time.Minute)
	assert.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("created_at", stale).Error)

	changed, err = ls.RefreshTableStatuses(30 * time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 1, changed)

	table, _, err := ls.GetTable("1")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusLongWaiting, table.Status)
	// Sweep derives status only; the money is untouched.
	assert.Equal(t, 5.00, table.Balance)

	// A new order flips it back to occupied on the next sweep.
	_, _, err = ls.AddOrder("1", tea.ID, 1)
	assert.NoError(t, err)
	changed, err = ls.RefreshTableStatuses(30 * time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 1, changed)

	table, _, err = ls.GetTable("1")
	assert.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
}

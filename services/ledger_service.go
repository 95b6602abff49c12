package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/models"
	"github.com/ekinacar/kafe-adisyon/utils"
)

// LedgerService owns the table lifecycle and the money attached to it.
// Every mutating operation runs in a single transaction and finishes by
// recomputing the table balance from the open order rows, so the cached
// balance can never drift from the lines that back it.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Receipt is the structured settlement result handed to the presentation
// layer. Text/print formatting is the caller's business.
type Receipt struct {
	PaymentID   uint                 `json:"payment_id"`
	TableNumber string               `json:"table_number"`
	Lines       []ReceiptLine        `json:"lines"`
	Subtotal    float64              `json:"subtotal"`
	DiscountPct int                  `json:"discount_pct"`
	TotalDue    float64              `json:"total_due"`
	Tendered    float64              `json:"tendered"`
	ChangeDue   float64              `json:"change_due"`
	Method      models.PaymentMethod `json:"method"`
	PaidAt      time.Time            `json:"paid_at"`
}

type ReceiptLine struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateTable registers a new table with status empty.
func (ls *LedgerService) CreateTable(number, name string) (*models.Table, error) {
	if number == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrInvalidArgument)
	}

	var count int64
	if err := ls.DB.Model(&models.Table{}).Where("table_number = ?", number).Count(&count).Error; err != nil {
		return nil, storageErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: table %s already exists", ErrConflict, number)
	}

	table := models.Table{
		TableNumber: number,
		Name:        name,
		Status:      models.TableStatusEmpty,
	}
	if err := ls.DB.Create(&table).Error; err != nil {
		return nil, storageErr(err)
	}

	utils.InfoLogger.Printf("New table created: %s", table.TableNumber)
	return &table, nil
}

func (ls *LedgerService) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := ls.DB.Order("table_number").Find(&tables).Error; err != nil {
		return nil, storageErr(err)
	}
	return tables, nil
}

// GetTable returns a table together with its open (unsettled) orders.
func (ls *LedgerService) GetTable(number string) (*models.Table, []models.Order, error) {
	table, err := findTableByNumber(ls.DB, number)
	if err != nil {
		return nil, nil, err
	}
	orders, err := openOrders(ls.DB, table.ID)
	if err != nil {
		return nil, nil, err
	}
	return table, orders, nil
}

// DeleteTable removes a table. Only empty tables may be deleted; settled
// history (payments, archived orders) is left in place.
func (ls *LedgerService) DeleteTable(number string) error {
	return ls.DB.Transaction(func(tx *gorm.DB) error {
		table, err := findTableByNumber(tx, number)
		if err != nil {
			return err
		}
		if table.Status != models.TableStatusEmpty {
			return fmt.Errorf("%w: table %s is %s, only empty tables can be deleted", ErrInvalidState, number, table.Status)
		}

		var open int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND payment_id IS NULL", table.ID).
			Count(&open).Error; err != nil {
			return storageErr(err)
		}
		if open > 0 {
			return fmt.Errorf("%w: table %s still has open orders", ErrInvalidState, number)
		}

		if err := tx.Delete(table).Error; err != nil {
			return storageErr(err)
		}
		utils.InfoLogger.Printf("Table %s deleted", number)
		return nil
	})
}

// OpenTable marks an empty table occupied without any order attached yet.
func (ls *LedgerService) OpenTable(number string) (*models.Table, error) {
	var table *models.Table
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		t, err := findTableByNumber(tx, number)
		if err != nil {
			return err
		}
		if t.Status != models.TableStatusEmpty {
			return fmt.Errorf("%w: table %s is already %s", ErrInvalidState, number, t.Status)
		}

		now := time.Now()
		t.Status = models.TableStatusOccupied
		t.OpenedAt = &now
		t.ClosedAt = nil
		t.Balance = 0
		if err := tx.Save(t).Error; err != nil {
			return storageErr(err)
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Table %s opened", number)
	return table, nil
}

// AddOrder appends a line to a table's tab, snapshotting the current item
// name and price. An empty table becomes occupied.
func (ls *LedgerService) AddOrder(tableNumber string, itemID uint, quantity int) (*models.Order, *models.Table, error) {
	if quantity < 1 {
		return nil, nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgument)
	}

	var (
		order *models.Order
		table *models.Table
	)
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		t, err := findTableByNumber(tx, tableNumber)
		if err != nil {
			return err
		}

		var item models.MenuItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: menu item %d", ErrNotFound, itemID)
			}
			return storageErr(err)
		}

		o := models.Order{
			TableID:    t.ID,
			MenuItemID: item.ID,
			ItemName:   item.Name,
			Quantity:   quantity,
			UnitPrice:  item.Price,
			LineTotal:  round2(float64(quantity) * item.Price),
		}
		if err := tx.Create(&o).Error; err != nil {
			return storageErr(err)
		}

		if err := tx.Model(&item).
			UpdateColumn("sales_count", gorm.Expr("sales_count + ?", quantity)).Error; err != nil {
			return storageErr(err)
		}

		if t.Status == models.TableStatusEmpty {
			now := time.Now()
			t.Status = models.TableStatusOccupied
			t.OpenedAt = &now
			t.ClosedAt = nil
		}
		if err := ls.recomputeBalance(tx, t); err != nil {
			return err
		}

		order = &o
		table = t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Order added: table=%s item=%s qty=%d", table.TableNumber, order.ItemName, order.Quantity)
	return order, table, nil
}

// RemoveOrder deletes a single open order line. Removing the last line
// reverts the table to empty and clears its discount.
func (ls *LedgerService) RemoveOrder(orderID uint) (*models.Table, error) {
	var table *models.Table
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return storageErr(err)
		}
		if order.PaymentID != nil {
			return fmt.Errorf("%w: order %d is already settled", ErrInvalidState, orderID)
		}

		var t models.Table
		if err := tx.First(&t, order.TableID).Error; err != nil {
			return storageErr(err)
		}

		if err := tx.Delete(&order).Error; err != nil {
			return storageErr(err)
		}

		var remaining int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND payment_id IS NULL", t.ID).
			Count(&remaining).Error; err != nil {
			return storageErr(err)
		}
		if remaining == 0 {
			t.Status = models.TableStatusEmpty
			t.OpenedAt = nil
			t.DiscountPct = 0
		}
		if err := ls.recomputeBalance(tx, &t); err != nil {
			return err
		}

		table = &t
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d removed from table %s", orderID, table.TableNumber)
	return table, nil
}

// ApplyDiscount sets the table's discount percentage. The raw line totals
// are untouched; only the cached (displayed) balance changes.
func (ls *LedgerService) ApplyDiscount(tableNumber string, percent int) (*models.Table, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100, got %d", ErrInvalidArgument, percent)
	}

	var table *models.Table
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		t, err := findTableByNumber(tx, tableNumber)
		if err != nil {
			return err
		}
		t.DiscountPct = percent
		if err := ls.recomputeBalance(tx, t); err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Discount %d%% applied to table %s", percent, tableNumber)
	return table, nil
}

// TransferOrders moves every open order from one table to another. The
// source reverts to empty, the destination becomes occupied.
func (ls *LedgerService) TransferOrders(fromNumber, toNumber string) (*models.Table, *models.Table, error) {
	if fromNumber == toNumber {
		return nil, nil, fmt.Errorf("%w: source and destination tables are the same", ErrInvalidArgument)
	}

	var src, dst *models.Table
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		from, err := findTableByNumber(tx, fromNumber)
		if err != nil {
			return err
		}
		to, err := findTableByNumber(tx, toNumber)
		if err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND payment_id IS NULL", from.ID).
			Count(&open).Error; err != nil {
			return storageErr(err)
		}
		if open == 0 {
			return fmt.Errorf("%w: table %s has no open orders to transfer", ErrConflict, fromNumber)
		}

		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND payment_id IS NULL", from.ID).
			Update("table_id", to.ID).Error; err != nil {
			return storageErr(err)
		}

		if to.Status == models.TableStatusEmpty {
			now := time.Now()
			to.Status = models.TableStatusOccupied
			to.OpenedAt = &now
			to.ClosedAt = nil
		}
		from.Status = models.TableStatusEmpty
		from.OpenedAt = nil
		from.DiscountPct = 0

		if err := ls.recomputeBalance(tx, from); err != nil {
			return err
		}
		if err := ls.recomputeBalance(tx, to); err != nil {
			return err
		}

		src, dst = from, to
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Orders transferred from table %s to table %s", fromNumber, toNumber)
	return src, dst, nil
}

// Settle closes a table's tab: validates the tender, writes the payment
// record, archives the open orders against it and resets the table.
func (ls *LedgerService) Settle(tableNumber string, tendered float64, method models.PaymentMethod) (*Receipt, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodCard {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, method)
	}

	var receipt *Receipt
	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		table, err := findTableByNumber(tx, tableNumber)
		if err != nil {
			return err
		}

		orders, err := openOrders(tx, table.ID)
		if err != nil {
			return err
		}
		if table.Status == models.TableStatusEmpty || len(orders) == 0 {
			return fmt.Errorf("%w: table %s has nothing to settle", ErrInvalidState, tableNumber)
		}

		var subtotal float64
		for _, o := range orders {
			subtotal += o.LineTotal
		}
		subtotal = round2(subtotal)
		due := round2(subtotal * float64(100-table.DiscountPct) / 100)

		if tendered < due {
			return fmt.Errorf("%w: tendered %.2f is less than total due %.2f", ErrInvalidArgument, tendered, due)
		}

		now := time.Now()
		payment := models.Payment{
			TableID:     table.ID,
			TableNumber: table.TableNumber,
			TotalDue:    due,
			Tendered:    round2(tendered),
			ChangeDue:   round2(tendered - due),
			Method:      method,
			PaidAt:      now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return storageErr(err)
		}

		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND payment_id IS NULL", table.ID).
			Update("payment_id", payment.ID).Error; err != nil {
			return storageErr(err)
		}

		discount := table.DiscountPct
		table.Status = models.TableStatusEmpty
		table.OpenedAt = nil
		table.ClosedAt = &now
		table.Balance = 0
		table.DiscountPct = 0
		if err := tx.Save(table).Error; err != nil {
			return storageErr(err)
		}

		lines := make([]ReceiptLine, 0, len(orders))
		for _, o := range orders {
			lines = append(lines, ReceiptLine{
				ItemName:  o.ItemName,
				Quantity:  o.Quantity,
				UnitPrice: o.UnitPrice,
				LineTotal: o.LineTotal,
			})
		}
		receipt = &Receipt{
			PaymentID:   payment.ID,
			TableNumber: table.TableNumber,
			Lines:       lines,
			Subtotal:    subtotal,
			DiscountPct: discount,
			TotalDue:    payment.TotalDue,
			Tendered:    payment.Tendered,
			ChangeDue:   payment.ChangeDue,
			Method:      payment.Method,
			PaidAt:      payment.PaidAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %s settled: due=%.2f tendered=%.2f change=%.2f (%s)",
		tableNumber, receipt.TotalDue, receipt.Tendered, receipt.ChangeDue, receipt.Method)
	return receipt, nil
}

// RefreshTableStatuses re-derives the display status of every table from
// its open orders: no orders means empty, a newest order older than the
// threshold means long_waiting, anything else occupied. Only the status
// column is touched. Returns the number of tables whose status changed.
func (ls *LedgerService) RefreshTableStatuses(threshold time.Duration) (int, error) {
	var tables []models.Table
	if err := ls.DB.Find(&tables).Error; err != nil {
		return 0, storageErr(err)
	}

	changed := 0
	now := time.Now()
	for i := range tables {
		t := &tables[i]

		var last models.Order
		err := ls.DB.Where("table_id = ? AND payment_id IS NULL", t.ID).
			Order("created_at DESC").
			First(&last).Error

		var want models.TableStatus
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			want = models.TableStatusEmpty
		case err != nil:
			return changed, storageErr(err)
		case now.Sub(last.CreatedAt) > threshold:
			want = models.TableStatusLongWaiting
		default:
			want = models.TableStatusOccupied
		}

		if want == t.Status {
			continue
		}
		if err := ls.DB.Model(t).UpdateColumn("status", want).Error; err != nil {
			return changed, storageErr(err)
		}
		changed++
	}
	return changed, nil
}

// recomputeBalance is the single place the cached table balance is
// written: sum of open line totals, net of the table discount.
func (ls *LedgerService) recomputeBalance(tx *gorm.DB, table *models.Table) error {
	var raw float64
	if err := tx.Model(&models.Order{}).
		Where("table_id = ? AND payment_id IS NULL", table.ID).
		Select("COALESCE(SUM(line_total), 0)").
		Scan(&raw).Error; err != nil {
		return storageErr(err)
	}

	table.Balance = round2(raw * float64(100-table.DiscountPct) / 100)
	if err := tx.Save(table).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func findTableByNumber(tx *gorm.DB, number string) (*models.Table, error) {
	var table models.Table
	if err := tx.Where("table_number = ?", number).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrNotFound, number)
		}
		return nil, storageErr(err)
	}
	return &table, nil
}

func openOrders(tx *gorm.DB, tableID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := tx.Where("table_id = ? AND payment_id IS NULL", tableID).
		Order("created_at ASC, id ASC").
		Find(&orders).Error; err != nil {
		return nil, storageErr(err)
	}
	return orders, nil
}

package models

import "time"

// Order is one line in a table's tab: N units of a menu item at the price
// the item had when it was ordered. Name and price are snapshots so later
// catalog edits never change historical totals.
type Order struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	TableID    uint     `gorm:"index;not null" json:"table_id"`
	Table      Table    `gorm:"foreignKey:TableID;references:ID" json:"-"`
	MenuItemID uint     `gorm:"index;not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID" json:"-"`
	ItemName   string   `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	UnitPrice  float64  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal  float64  `gorm:"type:decimal(10,2);not null" json:"line_total"`
	// PaymentID stays NULL while the tab is open; settlement archives the
	// line by pointing it at its payment instead of deleting it.
	PaymentID *uint     `gorm:"index" json:"payment_id,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

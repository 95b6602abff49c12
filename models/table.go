package models

import "time"

type TableStatus string

const (
	TableStatusEmpty       TableStatus = "empty"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusLongWaiting TableStatus = "long_waiting"
)

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`
	OpenedAt    *time.Time  `json:"opened_at,omitempty"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	// Balance is the discounted sum of the open tab, kept in sync by the
	// ledger service on every mutation.
	Balance     float64   `gorm:"type:decimal(10,2);not null;default:0" json:"balance"`
	DiscountPct int       `gorm:"not null;default:0" json:"discount_pct"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

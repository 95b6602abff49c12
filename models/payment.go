package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// Payment is an append-only settlement record. It references the table by
// number for traceability only and is never updated after creation.
type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	TableID     uint          `gorm:"index;not null" json:"table_id"`
	TableNumber string        `gorm:"type:varchar(50);not null" json:"table_number"`
	TotalDue    float64       `gorm:"type:decimal(10,2);not null" json:"total_due"`
	Tendered    float64       `gorm:"type:decimal(10,2);not null" json:"tendered"`
	ChangeDue   float64       `gorm:"type:decimal(10,2);not null" json:"change_due"`
	Method      PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	PaidAt      time.Time     `gorm:"index;not null" json:"paid_at"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
}

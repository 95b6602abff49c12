package models

import "time"

type MenuItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_category_name" json:"category"`
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_menu_category_name" json:"name"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	// SortOrder controls display position inside a category.
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	SalesCount int64     `gorm:"not null;default:0" json:"sales_count"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

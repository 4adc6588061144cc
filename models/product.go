package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	CategoryFood        ProductCategory = "food"
	CategoryClothes     ProductCategory = "clothes"
	CategoryAccessories ProductCategory = "accessories"
)

// ValidCategory reports whether s is one of the known product categories.
func ValidCategory(s string) bool {
	switch ProductCategory(s) {
	case CategoryFood, CategoryClothes, CategoryAccessories:
		return true
	}
	return false
}

type Size struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:10;not null" json:"name"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;size:250;not null" json:"slug"`
	Category    ProductCategory `gorm:"type:VARCHAR(20);not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Sizes       []Size          `gorm:"many2many:product_sizes" json:"sizes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// The web client reads prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MealCategory groups meals on the menu.
type MealCategory string

const (
	CategoryLunch     MealCategory = "Déjeuner"
	CategoryBreakfast MealCategory = "Petit-déjeuner"
)

// Valid reports whether c is a known category.
func (c MealCategory) Valid() bool {
	return c == CategoryLunch || c == CategoryBreakfast
}

// Meal is an item of the cafeteria catalog.
type Meal struct {
	ID        string          `json:"_id" gorm:"type:char(36);primaryKey"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Image     string          `json:"image" gorm:"size:512;not null"`
	Category  MealCategory    `json:"category" gorm:"type:varchar(32);not null;index"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available bool            `json:"available" gorm:"not null"`
}

// BeforeCreate sets the id before inserting the record.
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

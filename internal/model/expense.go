package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	BaseModel
	Description string          `gorm:"type:varchar(255);not null" json:"description" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" validate:"dgt0"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'IQD'" json:"currency"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	ExpenseDate time.Time       `gorm:"not null" json:"expense_date"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"` // nullable: walk-in sales
	Customer    *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	SaleDate    time.Time       `gorm:"not null" json:"sale_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount" validate:"dgte0"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'IQD'" json:"currency"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price" validate:"dgte0"`

	// Months of warranty coverage sold with this line; 0 means none.
	WarrantyMonths int `gorm:"default:0" json:"warranty_months" validate:"gte=0"`
}

package model

import (
	"github.com/shopspring/decimal"
)

// Stock status values derived from quantity vs the configured levels.
const (
	StockStatusOut     = "out_of_stock"
	StockStatusLow     = "low_stock"
	StockStatusReorder = "reorder_needed"
	StockStatusOK      = "in_stock"
)

type Product struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cost_price" validate:"dgte0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"selling_price" validate:"dgte0"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	QRCode       string          `gorm:"type:varchar(255);uniqueIndex" json:"qr_code"`
	Currency     string          `gorm:"type:varchar(10);not null;default:'IQD'" json:"currency"`

	Category string `gorm:"type:varchar(100)" json:"category"`
	Brand    string `gorm:"type:varchar(100)" json:"brand"`
	Model    string `gorm:"type:varchar(100)" json:"model"`
	Color    string `gorm:"type:varchar(50)" json:"color"`
	Size     string `gorm:"type:varchar(50)" json:"size"`

	// Inventory management levels
	MinStockLevel int `gorm:"default:5" json:"min_stock_level"`
	MaxStockLevel int `gorm:"default:100" json:"max_stock_level"`
	ReorderPoint  int `gorm:"default:10" json:"reorder_point"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`
}

// StockStatus derives the stock state from the counters. Never stored.
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return StockStatusOut
	case p.Quantity <= p.MinStockLevel:
		return StockStatusLow
	case p.Quantity <= p.ReorderPoint:
		return StockStatusReorder
	default:
		return StockStatusOK
	}
}

// IsLowStock reports whether quantity has fallen to or under the minimum.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// ProfitMargin returns the margin percentage over cost, 0 when cost is 0.
func (p *Product) ProfitMargin() decimal.Decimal {
	if !p.CostPrice.IsPositive() {
		return decimal.Zero
	}
	profit := p.SellingPrice.Sub(p.CostPrice)
	return profit.Div(p.CostPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// ProductResponse for API responses, with the derived fields attached.
type ProductResponse struct {
	Product
	StockStatus  string          `json:"stock_status"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		Product:      *p,
		StockStatus:  p.StockStatus(),
		ProfitMargin: p.ProfitMargin(),
	}
}

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

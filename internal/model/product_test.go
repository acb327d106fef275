package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductStockStatus(t *testing.T) {
	p := Product{MinStockLevel: 5, ReorderPoint: 10}

	p.Quantity = 0
	assert.Equal(t, StockStatusOut, p.StockStatus())

	p.Quantity = -2
	assert.Equal(t, StockStatusOut, p.StockStatus())

	p.Quantity = 5
	assert.Equal(t, StockStatusLow, p.StockStatus())

	p.Quantity = 8
	assert.Equal(t, StockStatusReorder, p.StockStatus())

	p.Quantity = 50
	assert.Equal(t, StockStatusOK, p.StockStatus())
}

func TestProductIsLowStock(t *testing.T) {
	p := Product{MinStockLevel: 5}

	p.Quantity = 6
	assert.False(t, p.IsLowStock())

	p.Quantity = 5
	assert.True(t, p.IsLowStock(), "boundary counts as low")

	p.Quantity = 0
	assert.True(t, p.IsLowStock())
}

func TestProductProfitMargin(t *testing.T) {
	t.Run("zero cost yields zero margin", func(t *testing.T) {
		p := Product{CostPrice: decimal.Zero, SellingPrice: decimal.NewFromInt(100)}
		assert.True(t, p.ProfitMargin().IsZero())
	})

	t.Run("margin over cost", func(t *testing.T) {
		p := Product{
			CostPrice:    decimal.NewFromInt(10000),
			SellingPrice: decimal.NewFromInt(15000),
		}
		assert.True(t, p.ProfitMargin().Equal(decimal.NewFromInt(50)))
	})

	t.Run("selling below cost goes negative", func(t *testing.T) {
		p := Product{
			CostPrice:    decimal.NewFromInt(100),
			SellingPrice: decimal.NewFromInt(80),
		}
		assert.True(t, p.ProfitMargin().Equal(decimal.NewFromInt(-20)))
	})
}

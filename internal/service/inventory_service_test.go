package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
)

func newInventoryService(t *testing.T, db *gorm.DB) InventoryService {
	t.Helper()
	return NewInventoryService(
		repository.NewProductRepo(db),
		repository.NewCategoryRepo(db),
		db, zerolog.Nop(),
	)
}

func TestCreateProductQRUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := newInventoryService(t, db)

	first := &model.Product{
		Name:         "Smart Bulb E27",
		CostPrice:    decimal.NewFromInt(3000),
		SellingPrice: decimal.NewFromInt(5000),
		QRCode:       "LP-0001",
		IsActive:     true,
	}
	require.NoError(t, svc.CreateProduct(first, "tester"))

	dup := &model.Product{
		Name:         "Smart Bulb E27 v2",
		CostPrice:    decimal.NewFromInt(3000),
		SellingPrice: decimal.NewFromInt(5000),
		QRCode:       "LP-0001",
		IsActive:     true,
	}
	assert.ErrorIs(t, svc.CreateProduct(dup, "tester"), ErrQRCodeTaken)

	found, err := svc.GetProductByQRCode("LP-0001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = svc.GetProductByQRCode("LP-9999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProductRejectsStolenQR(t *testing.T) {
	db := newTestDB(t)
	svc := newInventoryService(t, db)

	a := seedProduct(t, db, "Lantern A", 5, 2)
	b := seedProduct(t, db, "Lantern B", 5, 2)

	updates := *b
	updates.QRCode = a.QRCode
	_, err := svc.UpdateProduct(b.ID, &updates, "tester")
	assert.ErrorIs(t, err, ErrQRCodeTaken)
}

func TestAdjustStock(t *testing.T) {
	db := newTestDB(t)
	svc := newInventoryService(t, db)

	product := seedProduct(t, db, "Cable Reel", 10, 2)

	updated, err := svc.AdjustStock(product.ID, 15, "tester")
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Quantity)

	updated, err = svc.AdjustStock(product.ID, -5, "tester")
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 20, reloaded.Quantity)
}

func TestCategoryNameUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := newInventoryService(t, db)

	require.NoError(t, svc.CreateCategory(&model.Category{Name: "Chandeliers"}, "tester"))
	err := svc.CreateCategory(&model.Category{Name: "Chandeliers"}, "tester")
	assert.ErrorIs(t, err, ErrCategoryTaken)

	require.NoError(t, svc.CreateCategory(&model.Category{Name: "Outdoor"}, "tester"))
	categories, err := svc.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestProductFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newInventoryService(t, db)

	low := seedProduct(t, db, "Fading Tube", 2, 5)
	seedProduct(t, db, "Healthy Stock", 50, 5)

	inactive := seedProduct(t, db, "Retired SKU", 50, 5)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	t.Run("low stock only", func(t *testing.T) {
		products, err := svc.GetProducts(repository.ProductFilter{LowStock: true})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, low.ID, products[0].ID)
	})

	t.Run("active only", func(t *testing.T) {
		products, err := svc.GetProducts(repository.ProductFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}

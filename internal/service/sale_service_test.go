package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
)

func newSaleService(t *testing.T, db *gorm.DB, notifier *stubNotifier) SaleService {
	t.Helper()
	return NewSaleService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewWarrantyRepo(db),
		repository.NewExpenseRepo(db),
		db, notifier, zerolog.Nop(),
	)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, quantity, minLevel int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		CostPrice:     decimal.NewFromInt(10000),
		SellingPrice:  decimal.NewFromInt(15000),
		Quantity:      quantity,
		QRCode:        "qr-" + name,
		MinStockLevel: minLevel,
		ReorderPoint:  minLevel + 5,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCreateSaleDecrementsStockAndCreatesWarranty(t *testing.T) {
	db := newTestDB(t)
	notifier := newStubNotifier()
	svc := newSaleService(t, db, notifier)

	product := seedProduct(t, db, "LED Panel 60x60", 10, 3)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(30000),
		Currency:    "IQD",
		Items: []model.SaleItem{
			{
				ProductID:      product.ID,
				Quantity:       2,
				Price:          decimal.NewFromInt(15000),
				WarrantyMonths: 12,
			},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 8, reloaded.Quantity)

	var warranty model.Warranty
	require.NoError(t, db.First(&warranty, "product_id = ?", product.ID).Error)
	assert.Equal(t, 12, warranty.Months)
	assert.Equal(t, model.WarrantyStatusActive, warranty.Status)
	expectedEnd := warranty.StartDate.AddDate(0, 0, 12*model.WarrantyMonthDays)
	assert.WithinDuration(t, expectedEnd, warranty.EndDate, time.Second)
	require.NotNil(t, warranty.SaleID)
	assert.Equal(t, sale.ID, *warranty.SaleID)

	var items []model.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Find(&items).Error)
	assert.Len(t, items, 1)
}

func TestCreateSaleWithoutWarrantyMonths(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Ceiling Spot", 5, 2)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(15000),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(15000)},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"))

	var count int64
	require.NoError(t, db.Model(&model.Warranty{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSaleLowStockNotification(t *testing.T) {
	db := newTestDB(t)
	notifier := newStubNotifier()
	svc := newSaleService(t, db, notifier)

	product := seedProduct(t, db, "Chandelier Small", 6, 5)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(15000),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(15000)},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"))

	// 6 - 1 = 5 == min level: alert fires after commit.
	require.Eventually(t, func() bool {
		return notifier.count("low_stock") == 1 && notifier.count("sale") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateSaleMissingProductIsLenient(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Wall Sconce", 10, 2)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(45000),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(15000)},
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(15000)},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"), "unknown product must not fail the sale")

	var items []model.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Find(&items).Error)
	assert.Len(t, items, 2, "ghost line is still recorded")

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 9, reloaded.Quantity, "only the known product moved")
}

func TestCreateSaleAllowsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Floodlight", 1, 0)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(45000),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 3, Price: decimal.NewFromInt(15000)},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, -2, reloaded.Quantity)
}

func TestCreateSaleRejectsEmptyAndInvalid(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	err := svc.CreateSale(&model.Sale{TotalAmount: decimal.NewFromInt(10)}, "tester")
	assert.ErrorIs(t, err, ErrEmptySale)

	product := seedProduct(t, db, "Desk Lamp", 5, 2)
	err = svc.CreateSale(&model.Sale{
		TotalAmount: decimal.NewFromInt(10),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 0, Price: decimal.NewFromInt(10)},
		},
	}, "tester")
	assert.Error(t, err, "zero quantity line")
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Track Light", 10, 2)

	sale := &model.Sale{
		TotalAmount: decimal.NewFromInt(60000),
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 4, Price: decimal.NewFromInt(15000)},
		},
	}
	require.NoError(t, svc.CreateSale(sale, "tester"))

	var afterSale model.Product
	require.NoError(t, db.First(&afterSale, "id = ?", product.ID).Error)
	require.Equal(t, 6, afterSale.Quantity)

	require.NoError(t, svc.DeleteSale(sale.ID, "tester"))

	var restored model.Product
	require.NoError(t, db.First(&restored, "id = ?", product.ID).Error)
	assert.Equal(t, 10, restored.Quantity)

	_, err := svc.GetSaleByID(sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSaleReport(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Pendant Lamp", 20, 2)
	for i := 0; i < 3; i++ {
		sale := &model.Sale{
			TotalAmount: decimal.NewFromInt(15000),
			Items: []model.SaleItem{
				{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(15000)},
			},
		}
		require.NoError(t, svc.CreateSale(sale, "tester"))
	}

	report, err := svc.Report(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Summary.TotalSales)
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.NewFromInt(45000)))
	assert.Len(t, report.Sales, 3)
}

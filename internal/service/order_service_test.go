package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
)

func newOrderService(t *testing.T, db *gorm.DB, notifier *stubNotifier) OrderService {
	t.Helper()
	return NewOrderService(
		repository.NewOrderRepo(db),
		repository.NewProductRepo(db),
		db, notifier, zerolog.Nop(),
	)
}

func buildOrder(product *model.Product, quantity int) *model.Order {
	return &model.Order{
		CustomerName:  "Ali Hassan",
		CustomerPhone: "07701234567",
		TotalAmount:   product.SellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
		OrderType:     model.OrderTypePickup,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: quantity, Price: product.SellingPrice},
		},
	}
}

func TestCreateOrderChecksButKeepsStock(t *testing.T) {
	db := newTestDB(t)
	notifier := newStubNotifier()
	svc := newOrderService(t, db, notifier)

	product := seedProduct(t, db, "Garden Bollard", 10, 2)

	order := buildOrder(product, 4)
	require.NoError(t, svc.CreateOrder(order, "storefront"))
	assert.Equal(t, model.OrderStatusPending, order.Status)

	// Orders reserve nothing; the quantity only moves at the counter.
	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 10, reloaded.Quantity)

	assert.True(t, order.Items[0].Total.Equal(decimal.NewFromInt(60000)))

	require.Eventually(t, func() bool {
		return notifier.count("new_order") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Strip Light 5m", 2, 1)

	err := svc.CreateOrder(buildOrder(product, 5), "storefront")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count, "failed order leaves nothing behind")
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Discontinued Globe", 10, 2)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)

	err := svc.CreateOrder(buildOrder(product, 1), "storefront")
	assert.ErrorIs(t, err, ErrInactiveProduct)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, newStubNotifier())

	err := svc.CreateOrder(&model.Order{
		CustomerName:  "Ali",
		CustomerPhone: "0770",
		OrderType:     model.OrderTypePickup,
	}, "storefront")
	assert.ErrorIs(t, err, ErrEmptyOrder)

	err = svc.CreateOrder(&model.Order{
		CustomerPhone: "0770",
		OrderType:     model.OrderTypePickup,
		Items:         []model.OrderItem{{Quantity: 1}},
	}, "storefront")
	assert.Error(t, err, "customer name is required")
}

func TestOrderStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	notifier := newStubNotifier()
	svc := newOrderService(t, db, notifier)

	product := seedProduct(t, db, "Bedside Lamp", 10, 2)
	order := buildOrder(product, 1)
	require.NoError(t, svc.CreateOrder(order, "storefront"))

	t.Run("cannot skip ahead", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, model.OrderStatusReady, "tester")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("advances one step at a time", func(t *testing.T) {
		updated, err := svc.UpdateStatus(order.ID, model.OrderStatusConfirmed, "tester")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

		updated, err = svc.UpdateStatus(order.ID, model.OrderStatusPreparing, "tester")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPreparing, updated.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, model.OrderStatus("shipped"), "tester")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("cancel from non-terminal", func(t *testing.T) {
		updated, err := svc.UpdateStatus(order.ID, model.OrderStatusCancelled, "tester")
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, updated.Status)
	})

	t.Run("terminal is frozen", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, model.OrderStatusConfirmed, "tester")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestDeleteOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, newStubNotifier())

	product := seedProduct(t, db, "Mirror Light", 10, 2)
	order := buildOrder(product, 1)
	require.NoError(t, svc.CreateOrder(order, "storefront"))

	require.NoError(t, svc.DeleteOrder(order.ID))
	_, err := svc.GetOrderByID(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, svc.DeleteOrder(order.ID), ErrOrderNotFound)
}

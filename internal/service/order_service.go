package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/notify"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/validator"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInsufficientStock = errors.New("insufficient stock for order")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrOrderProductGone  = errors.New("order references unknown product")
	ErrInactiveProduct   = errors.New("product is not available for ordering")
)

type OrderService interface {
	CreateOrder(order *model.Order, actor string) error
	GetOrders(filter repository.OrderFilter) ([]model.Order, error)
	GetOrderByID(id uuid.UUID) (*model.Order, error)
	UpdateStatus(id uuid.UUID, target model.OrderStatus, actor string) (*model.Order, error)
	DeleteOrder(id uuid.UUID) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	notifier    notify.Notifier
	log         zerolog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	notifier notify.Notifier,
	log zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		db:          db,
		notifier:    notifier,
		log:         log.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates each line against current stock but does not
// reserve it. Stock only moves when the order is rung up as a sale, so
// two orders can both pass the check; the second one to be fulfilled
// surfaces the shortage at the counter.
func (s *orderService) CreateOrder(order *model.Order, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(order); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	for i := range order.Items {
		if errs := validator.ValidateStruct(&order.Items[i]); len(errs) > 0 {
			firstErr := errs[0]
			return fmt.Errorf("validation failed: item %d field '%s' failed on tag '%s'", i, firstErr.FailedField, firstErr.Tag)
		}
	}

	order.Status = model.OrderStatusPending
	order.OrderDate = time.Now()
	order.CreatedBy = actor
	order.UpdatedBy = actor

	// 2. Stock sufficiency under lock, then persist
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]
			product, err := s.productRepo.LockForUpdate(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrOrderProductGone, item.ProductID)
				}
				return err
			}
			if !product.IsActive {
				return fmt.Errorf("%w: %s", ErrInactiveProduct, product.Name)
			}
			if product.Quantity < item.Quantity {
				return fmt.Errorf("%w: %s has %d, requested %d",
					ErrInsufficientStock, product.Name, product.Quantity, item.Quantity)
			}
			item.Total = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			item.CreatedBy = actor
			item.UpdatedBy = actor
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return err
	}

	go s.notifier.NotifyNewOrder(
		order.CustomerName, order.CustomerPhone,
		order.TotalAmount, order.Currency, order.OrderType, len(order.Items),
	)
	return nil
}

func (s *orderService) GetOrders(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) GetOrderByID(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateStatus(id uuid.UUID, target model.OrderStatus, actor string) (*model.Order, error) {
	// 1. Target must name a known status
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	// 2. Load and check the transition
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	// 3. Persist and notify
	oldStatus := order.Status
	if err := s.orderRepo.UpdateStatus(id, target, actor); err != nil {
		return nil, err
	}
	order.Status = target
	order.UpdatedBy = actor

	go s.notifier.NotifyOrderStatus(order.CustomerName, oldStatus.String(), target.String())
	return order, nil
}

func (s *orderService) DeleteOrder(id uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return s.orderRepo.Delete(id)
}

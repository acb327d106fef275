package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can move to the target status.
// Cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing
	case OrderStatusPreparing:
		return target == OrderStatusReady
	case OrderStatusReady:
		return target == OrderStatusDelivered
	}
	return false
}

// Order type values
const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// Order is a customer self-service order. Unlike a Sale it carries free
// text customer contact fields and moves through a status state machine.
type Order struct {
	BaseModel
	CustomerName    string          `gorm:"type:varchar(100);not null" json:"customer_name" validate:"required"`
	CustomerPhone   string          `gorm:"type:varchar(20);not null" json:"customer_phone" validate:"required"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount" validate:"dgte0"`
	Currency        string          `gorm:"type:varchar(10);not null;default:'IQD'" json:"currency"`
	OrderType       string          `gorm:"type:varchar(20);not null;default:'pickup'" json:"order_type" validate:"oneof=pickup delivery"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
	OrderDate       time.Time       `gorm:"not null" json:"order_date"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"delivery_fee" validate:"dgte0"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price" validate:"dgte0"`
	Total     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtStatus tracks how much of a company invoice has been collected.
type DebtStatus string

const (
	DebtStatusPending DebtStatus = "pending" // no payment received yet
	DebtStatusPartial DebtStatus = "partial" // 0 < paid < total
	DebtStatusPaid    DebtStatus = "paid"    // remaining reached 0
)

func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusPending, DebtStatusPartial, DebtStatusPaid:
		return true
	}
	return false
}

func (s DebtStatus) String() string {
	return string(s)
}

// CanAcceptPayment returns true while a balance is outstanding.
func (s DebtStatus) CanAcceptPayment() bool {
	return s == DebtStatusPending || s == DebtStatusPartial
}

// DefaultPaymentTermsDays applies when a company has no terms configured.
const DefaultPaymentTermsDays = 30

type Company struct {
	BaseModel
	Name             string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	ContactPerson    string          `gorm:"type:varchar(100)" json:"contact_person"`
	Phone            string          `gorm:"type:varchar(20)" json:"phone"`
	Email            string          `gorm:"type:varchar(100)" json:"email" validate:"omitempty,email"`
	Address          string          `gorm:"type:text" json:"address"`
	TaxNumber        string          `gorm:"type:varchar(50)" json:"tax_number"`
	CreditLimit      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"credit_limit"`
	PaymentTermsDays int             `gorm:"default:30" json:"payment_terms_days"`
	Notes            string          `gorm:"type:text" json:"notes"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
}

// CompanyDebt is one invoice owed by a company. Invariant:
// PaidAmount + RemainingAmount == TotalAmount at all times.
type CompanyDebt struct {
	BaseModel
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id" validate:"uuid_required"`
	Company       *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty" validate:"-"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index" json:"invoice_number" validate:"required"`
	InvoiceDate   time.Time       `gorm:"type:date;not null" json:"invoice_date"`
	DueDate       time.Time       `gorm:"type:date;not null" json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount" validate:"dgt0"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	Remaining     decimal.Decimal `gorm:"column:remaining_amount;type:decimal(15,2);not null" json:"remaining_amount"`
	Status        DebtStatus      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Description   string          `gorm:"type:text" json:"description"`

	Payments []DebtPayment `gorm:"foreignKey:DebtID" json:"payments,omitempty"`
}

// IsOverdue reports whether the invoice is past due and not settled.
func (d *CompanyDebt) IsOverdue(now time.Time) bool {
	return d.DueDate.Before(now) && d.Status != DebtStatusPaid
}

// DaysUntilDue is negative once the invoice is overdue.
func (d *CompanyDebt) DaysUntilDue(now time.Time) int {
	return int(d.DueDate.Sub(now).Hours() / 24)
}

type DebtPayment struct {
	BaseModel
	DebtID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"debt_id"`
	PaymentDate time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" validate:"dgt0"`
	Method      string          `gorm:"type:varchar(20);default:'cash'" json:"method"`
	Reference   string          `gorm:"type:varchar(100)" json:"reference"`
	Notes       string          `gorm:"type:text" json:"notes"`
	ReceivedBy  string          `gorm:"type:varchar(255)" json:"received_by"`
}

// Interaction types appended to the debt history log.
const (
	InteractionDebtCreated     = "debt_created"
	InteractionPaymentReceived = "payment_received"
)

// DebtInteraction is an immutable audit entry. Rows are only ever
// appended, never updated or deleted.
type DebtInteraction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DebtID      uuid.UUID `gorm:"type:uuid;not null;index" json:"debt_id"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Actor       string    `gorm:"type:varchar(255)" json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *DebtInteraction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

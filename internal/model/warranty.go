package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarrantyStatus is the stored status. The effective status additionally
// accounts for the coverage window, computed at read time.
type WarrantyStatus string

const (
	WarrantyStatusActive  WarrantyStatus = "active"
	WarrantyStatusClaimed WarrantyStatus = "claimed"
	WarrantyStatusExpired WarrantyStatus = "expired"
	WarrantyStatusVoid    WarrantyStatus = "void"
)

func (s WarrantyStatus) IsValid() bool {
	switch s {
	case WarrantyStatusActive, WarrantyStatusClaimed, WarrantyStatusExpired, WarrantyStatusVoid:
		return true
	}
	return false
}

func (s WarrantyStatus) String() string {
	return string(s)
}

// Warranty type values
const (
	WarrantyTypeManufacturer = "manufacturer"
	WarrantyTypeStore        = "store"
	WarrantyTypeExtended     = "extended"
)

// WarrantyMonthDays is the fixed month length used for coverage windows.
const WarrantyMonthDays = 30

type Warranty struct {
	BaseModel
	SaleID     *uuid.UUID `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	SaleItemID *uuid.UUID `gorm:"type:uuid;index" json:"sale_item_id,omitempty"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product    *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`

	WarrantyType string         `gorm:"type:varchar(50);not null;default:'store'" json:"warranty_type" validate:"oneof=manufacturer store extended"`
	Months       int            `gorm:"not null" json:"months" validate:"required,gt=0"`
	StartDate    time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time      `gorm:"type:date;not null" json:"end_date"`
	Status       WarrantyStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	ClaimCount    int        `gorm:"default:0" json:"claim_count"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"`

	SerialNumber  string          `gorm:"type:varchar(100)" json:"serial_number"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,2)" json:"purchase_price"`
	Terms         string          `gorm:"type:text" json:"terms"`
	Notes         string          `gorm:"type:text" json:"notes"`

	Claims     []WarrantyClaim     `gorm:"foreignKey:WarrantyID" json:"claims,omitempty"`
	Extensions []WarrantyExtension `gorm:"foreignKey:WarrantyID" json:"extensions,omitempty"`
}

// CoverageEnd computes end = start + months*30d. Used on create; after
// that EndDate is authoritative because extensions move it.
func CoverageEnd(start time.Time, months int) time.Time {
	return start.AddDate(0, 0, months*WarrantyMonthDays)
}

// DaysRemaining returns whole days of coverage left, never negative.
func (w *Warranty) DaysRemaining(now time.Time) int {
	days := int(w.EndDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// EffectiveStatus derives the current status: stored void and claimed
// stand, an active warranty past its end date reads as expired. Nothing
// is written back; expiry drift is impossible because it is recomputed
// on every read.
func (w *Warranty) EffectiveStatus(now time.Time) WarrantyStatus {
	if w.Status == WarrantyStatusVoid || w.Status == WarrantyStatusClaimed {
		return w.Status
	}
	if now.After(w.EndDate) {
		return WarrantyStatusExpired
	}
	return WarrantyStatusActive
}

// Claimable reports whether a new claim may be filed now. Claims keep
// accumulating on an already-claimed warranty as long as coverage holds.
func (w *Warranty) Claimable(now time.Time) bool {
	if w.Status == WarrantyStatusVoid {
		return false
	}
	return !now.After(w.EndDate)
}

// WarrantyResponse carries the derived fields next to the record.
type WarrantyResponse struct {
	Warranty
	EffectiveStatus WarrantyStatus `json:"effective_status"`
	DaysRemaining   int            `json:"days_remaining"`
	StartDateStr    string         `json:"start_date_str"`
	EndDateStr      string         `json:"end_date_str"`
}

func (w *Warranty) ToResponse(now time.Time) WarrantyResponse {
	return WarrantyResponse{
		Warranty:        *w,
		EffectiveStatus: w.EffectiveStatus(now),
		DaysRemaining:   w.DaysRemaining(now),
		StartDateStr:    w.StartDate.Format(DateOnly),
		EndDateStr:      w.EndDate.Format(DateOnly),
	}
}

// WarrantyClaim is one service request filed against a warranty. The
// claim log is append-only and ordered by claim number.
type WarrantyClaim struct {
	BaseModel
	WarrantyID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"warranty_id"`
	ClaimNumber int             `gorm:"not null" json:"claim_number"`
	ClaimDate   time.Time       `gorm:"type:date;not null" json:"claim_date"`
	Issue       string          `gorm:"type:text;not null" json:"issue"`
	Status      string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Resolution  string          `gorm:"type:text" json:"resolution"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	Technician  string          `gorm:"type:varchar(100)" json:"technician"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost"`
	Notes       string          `gorm:"type:text" json:"notes"`
}

// WarrantyExtension records one coverage extension.
type WarrantyExtension struct {
	BaseModel
	WarrantyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"warranty_id"`
	Months     int             `gorm:"not null" json:"months"`
	NewEndDate time.Time       `gorm:"type:date;not null" json:"new_end_date"`
	Reason     string          `gorm:"type:text" json:"reason"`
	Cost       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost"`
}

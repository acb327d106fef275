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
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/validator"
)

var (
	ErrWarrantyNotFound  = errors.New("warranty not found")
	ErrWarrantyNotClaim  = errors.New("warranty cannot accept a claim")
	ErrWarrantyVoided    = errors.New("warranty is void")
	ErrExtensionTooShort = errors.New("extension must add at least one month")
)

type ClaimRequest struct {
	Issue      string          `json:"issue" validate:"required"`
	Technician string          `json:"technician"`
	Cost       decimal.Decimal `json:"cost" validate:"dgte0"`
	Notes      string          `json:"notes"`
}

type ExtensionRequest struct {
	Months int             `json:"months" validate:"required,gt=0"`
	Reason string          `json:"reason"`
	Cost   decimal.Decimal `json:"cost" validate:"dgte0"`
}

type WarrantyStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Claimed  int64 `json:"claimed"`
	Expired  int64 `json:"expired"`
	Void     int64 `json:"void"`
	Expiring int64 `json:"expiring_soon"`
}

type WarrantyService interface {
	CreateWarranty(warranty *model.Warranty, actor string) error
	GetWarranties() ([]model.WarrantyResponse, error)
	GetWarrantyByID(id uuid.UUID) (*model.WarrantyResponse, error)
	GetByCustomer(customerID uuid.UUID) ([]model.WarrantyResponse, error)
	GetByProduct(productID uuid.UUID) ([]model.WarrantyResponse, error)
	UpdateWarranty(id uuid.UUID, updates *model.Warranty, actor string) (*model.WarrantyResponse, error)
	Claim(id uuid.UUID, req *ClaimRequest, actor string) (*model.WarrantyResponse, error)
	Extend(id uuid.UUID, req *ExtensionRequest, actor string) (*model.WarrantyResponse, error)
	Void(id uuid.UUID, reason, actor string) error
	ExpiringWithin(days int) ([]model.WarrantyResponse, error)
	Stats() (*WarrantyStats, error)
}

type warrantyService struct {
	warrantyRepo repository.WarrantyRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
	log          zerolog.Logger
}

func NewWarrantyService(
	warrantyRepo repository.WarrantyRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	log zerolog.Logger,
) WarrantyService {
	return &warrantyService{
		warrantyRepo: warrantyRepo,
		productRepo:  productRepo,
		db:           db,
		log:          log.With().Str("service", "warranty").Logger(),
	}
}

// CreateWarranty registers coverage sold outside the sales flow, such
// as a manufacturer warranty entered after the fact.
func (s *warrantyService) CreateWarranty(warranty *model.Warranty, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(warranty); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Product must exist
	if _, err := s.productRepo.FindByID(warranty.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	// 3. Derive the coverage window
	if warranty.StartDate.IsZero() {
		warranty.StartDate = time.Now()
	}
	warranty.EndDate = model.CoverageEnd(warranty.StartDate, warranty.Months)
	warranty.Status = model.WarrantyStatusActive
	warranty.ClaimCount = 0
	warranty.CreatedBy = actor
	warranty.UpdatedBy = actor

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.warrantyRepo.Create(tx, warranty)
	})
}

func (s *warrantyService) GetWarranties() ([]model.WarrantyResponse, error) {
	warranties, err := s.warrantyRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return toResponses(warranties), nil
}

func (s *warrantyService) GetWarrantyByID(id uuid.UUID) (*model.WarrantyResponse, error) {
	warranty, err := s.warrantyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarrantyNotFound
		}
		return nil, err
	}
	resp := warranty.ToResponse(time.Now())
	return &resp, nil
}

func (s *warrantyService) GetByCustomer(customerID uuid.UUID) ([]model.WarrantyResponse, error) {
	warranties, err := s.warrantyRepo.FindByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	return toResponses(warranties), nil
}

func (s *warrantyService) GetByProduct(productID uuid.UUID) ([]model.WarrantyResponse, error) {
	warranties, err := s.warrantyRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}
	return toResponses(warranties), nil
}

// UpdateWarranty edits descriptive fields only. The coverage window and
// status move through Claim, Extend and Void.
func (s *warrantyService) UpdateWarranty(id uuid.UUID, updates *model.Warranty, actor string) (*model.WarrantyResponse, error) {
	warranty, err := s.warrantyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarrantyNotFound
		}
		return nil, err
	}

	if updates.WarrantyType != "" {
		warranty.WarrantyType = updates.WarrantyType
	}
	if updates.CustomerID != nil {
		warranty.CustomerID = updates.CustomerID
	}
	warranty.SerialNumber = updates.SerialNumber
	warranty.Terms = updates.Terms
	warranty.Notes = updates.Notes
	warranty.UpdatedBy = actor

	if err := s.warrantyRepo.Update(warranty); err != nil {
		return nil, err
	}
	resp := warranty.ToResponse(time.Now())
	return &resp, nil
}

// Claim files a service request. Claims accumulate: an already-claimed
// warranty accepts further claims as long as the coverage window holds.
func (s *warrantyService) Claim(id uuid.UUID, req *ClaimRequest, actor string) (*model.WarrantyResponse, error) {
	// 1. Basic validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	warranty, err := s.warrantyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarrantyNotFound
		}
		return nil, err
	}

	// 2. Coverage check
	now := time.Now()
	if !warranty.Claimable(now) {
		return nil, ErrWarrantyNotClaim
	}

	// 3. Append the numbered claim and bump the counters
	err = s.db.Transaction(func(tx *gorm.DB) error {
		claim := &model.WarrantyClaim{
			WarrantyID:  id,
			ClaimNumber: warranty.ClaimCount + 1,
			ClaimDate:   now,
			Issue:       req.Issue,
			Status:      "pending",
			Technician:  req.Technician,
			Cost:        req.Cost,
			Notes:       req.Notes,
		}
		claim.CreatedBy = actor
		claim.UpdatedBy = actor
		if err := s.warrantyRepo.AppendClaim(tx, claim); err != nil {
			return err
		}

		warranty.ClaimCount++
		warranty.LastClaimDate = &now
		warranty.Status = model.WarrantyStatusClaimed
		warranty.UpdatedBy = actor
		return tx.Save(warranty).Error
	})
	if err != nil {
		return nil, err
	}

	resp := warranty.ToResponse(now)
	return &resp, nil
}

// Extend pushes the coverage end out by months*30 days from the current
// end date. Extending a lapsed warranty revives it: the stored status
// goes back to active and the new window governs.
func (s *warrantyService) Extend(id uuid.UUID, req *ExtensionRequest, actor string) (*model.WarrantyResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Months < 1 {
		return nil, ErrExtensionTooShort
	}

	warranty, err := s.warrantyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarrantyNotFound
		}
		return nil, err
	}
	if warranty.Status == model.WarrantyStatusVoid {
		return nil, ErrWarrantyVoided
	}

	newEnd := model.CoverageEnd(warranty.EndDate, req.Months)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ext := &model.WarrantyExtension{
			WarrantyID: id,
			Months:     req.Months,
			NewEndDate: newEnd,
			Reason:     req.Reason,
			Cost:       req.Cost,
		}
		ext.CreatedBy = actor
		ext.UpdatedBy = actor
		if err := s.warrantyRepo.AppendExtension(tx, ext); err != nil {
			return err
		}

		warranty.EndDate = newEnd
		warranty.Months += req.Months
		if warranty.Status == model.WarrantyStatusExpired {
			warranty.Status = model.WarrantyStatusActive
		}
		warranty.UpdatedBy = actor
		return tx.Save(warranty).Error
	})
	if err != nil {
		return nil, err
	}

	resp := warranty.ToResponse(time.Now())
	return &resp, nil
}

func (s *warrantyService) Void(id uuid.UUID, reason, actor string) error {
	warranty, err := s.warrantyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWarrantyNotFound
		}
		return err
	}

	warranty.Status = model.WarrantyStatusVoid
	if reason != "" {
		// Keep existing notes; the void reason goes on its own line.
		if warranty.Notes != "" {
			warranty.Notes += "\n"
		}
		warranty.Notes += "Voided: " + reason
	}
	warranty.UpdatedBy = actor
	return s.warrantyRepo.Update(warranty)
}

// ExpiringWithin lists warranties whose coverage ends inside the next
// N days and are still effectively active.
func (s *warrantyService) ExpiringWithin(days int) ([]model.WarrantyResponse, error) {
	now := time.Now()
	warranties, err := s.warrantyRepo.FindEndingBetween(now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	out := make([]model.WarrantyResponse, 0, len(warranties))
	for i := range warranties {
		if warranties[i].EffectiveStatus(now) != model.WarrantyStatusActive {
			continue
		}
		out = append(out, warranties[i].ToResponse(now))
	}
	return out, nil
}

func (s *warrantyService) Stats() (*WarrantyStats, error) {
	counts, err := s.warrantyRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiring, err := s.warrantyRepo.FindEndingBetween(now, now.AddDate(0, 0, 30))
	if err != nil {
		return nil, err
	}

	stats := &WarrantyStats{
		Active:   counts[model.WarrantyStatusActive],
		Claimed:  counts[model.WarrantyStatusClaimed],
		Expired:  counts[model.WarrantyStatusExpired],
		Void:     counts[model.WarrantyStatusVoid],
		Expiring: int64(len(expiring)),
	}
	stats.Total = stats.Active + stats.Claimed + stats.Expired + stats.Void
	return stats, nil
}

func toResponses(warranties []model.Warranty) []model.WarrantyResponse {
	now := time.Now()
	out := make([]model.WarrantyResponse, 0, len(warranties))
	for i := range warranties {
		out = append(out, warranties[i].ToResponse(now))
	}
	return out
}

package service

import (
	"errors"
	"fmt"
	"sort"
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
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyTaken    = errors.New("company name already exists")
	ErrDebtNotFound    = errors.New("debt not found")
	ErrDebtSettled     = errors.New("debt is already fully paid")
	ErrOverPayment     = errors.New("payment exceeds remaining balance")
)

type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"dgt0"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// DebtReport aggregates collection figures for a date range.
type DebtReport struct {
	Stats          *repository.DebtReportStats     `json:"stats"`
	CollectionRate decimal.Decimal                 `json:"collection_rate"`
	TopDebts       []model.CompanyDebt             `json:"top_debts"`
	Companies      []repository.CompanyDebtSummary `json:"companies"`
}

type DebtService interface {
	CreateCompany(company *model.Company, actor string) error
	GetCompanies(activeOnly bool) ([]model.Company, error)
	GetCompanyByID(id uuid.UUID) (*model.Company, error)
	UpdateCompany(id uuid.UUID, updates *model.Company, actor string) (*model.Company, error)

	CreateDebt(debt *model.CompanyDebt, actor string) error
	GetDebts(filter repository.DebtFilter) ([]model.CompanyDebt, error)
	GetDebtByID(id uuid.UUID) (*model.CompanyDebt, error)
	RecordPayment(debtID uuid.UUID, req *PaymentRequest, actor string) (*model.CompanyDebt, error)
	GetPayments(debtID uuid.UUID) ([]model.DebtPayment, error)
	GetInteractions(debtID uuid.UUID) ([]model.DebtInteraction, error)
	CompanySummaries() ([]repository.CompanyDebtSummary, error)
	Report(start, end time.Time) (*DebtReport, error)
}

type debtService struct {
	debtRepo repository.DebtRepository
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewDebtService(debtRepo repository.DebtRepository, notifier notify.Notifier, log zerolog.Logger) DebtService {
	return &debtService{
		debtRepo: debtRepo,
		notifier: notifier,
		log:      log.With().Str("service", "debt").Logger(),
	}
}

func (s *debtService) CreateCompany(company *model.Company, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(company); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if company.PaymentTermsDays <= 0 {
		company.PaymentTermsDays = model.DefaultPaymentTermsDays
	}
	company.IsActive = true
	company.CreatedBy = actor
	company.UpdatedBy = actor

	if err := s.debtRepo.CreateCompany(company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCompanyTaken
		}
		return err
	}
	return nil
}

func (s *debtService) GetCompanies(activeOnly bool) ([]model.Company, error) {
	return s.debtRepo.FindCompanies(activeOnly)
}

func (s *debtService) GetCompanyByID(id uuid.UUID) (*model.Company, error) {
	company, err := s.debtRepo.FindCompanyByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

func (s *debtService) UpdateCompany(id uuid.UUID, updates *model.Company, actor string) (*model.Company, error) {
	company, err := s.debtRepo.FindCompanyByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if updates.Name != "" {
		company.Name = updates.Name
	}
	company.ContactPerson = updates.ContactPerson
	company.Phone = updates.Phone
	company.Email = updates.Email
	company.Address = updates.Address
	company.TaxNumber = updates.TaxNumber
	company.CreditLimit = updates.CreditLimit
	if updates.PaymentTermsDays > 0 {
		company.PaymentTermsDays = updates.PaymentTermsDays
	}
	company.Notes = updates.Notes
	company.IsActive = updates.IsActive
	company.UpdatedBy = actor

	if err := s.debtRepo.UpdateCompany(company); err != nil {
		return nil, err
	}
	return company, nil
}

// CreateDebt records a new company invoice. The due date is derived from
// the company's payment terms when the caller leaves it zero.
func (s *debtService) CreateDebt(debt *model.CompanyDebt, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(debt); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Company must exist
	company, err := s.debtRepo.FindCompanyByID(debt.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}

	// 3. Derive dates and the opening balance
	if debt.InvoiceDate.IsZero() {
		debt.InvoiceDate = time.Now()
	}
	if debt.DueDate.IsZero() {
		terms := company.PaymentTermsDays
		if terms <= 0 {
			terms = model.DefaultPaymentTermsDays
		}
		debt.DueDate = debt.InvoiceDate.AddDate(0, 0, terms)
	}
	debt.PaidAmount = decimal.Zero
	debt.Remaining = debt.TotalAmount
	debt.Status = model.DebtStatusPending
	debt.CreatedBy = actor
	debt.UpdatedBy = actor

	// 4. Invoice and opening interaction commit together
	return s.debtRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.debtRepo.CreateDebt(tx, debt); err != nil {
			return err
		}
		return s.debtRepo.AppendInteraction(tx, &model.DebtInteraction{
			DebtID: debt.ID,
			Type:   model.InteractionDebtCreated,
			Description: fmt.Sprintf("Invoice %s created for %s, total %s",
				debt.InvoiceNumber, company.Name, debt.TotalAmount.StringFixed(2)),
			Actor: actor,
		})
	})
}

func (s *debtService) GetDebts(filter repository.DebtFilter) ([]model.CompanyDebt, error) {
	return s.debtRepo.FindDebts(filter)
}

func (s *debtService) GetDebtByID(id uuid.UUID) (*model.CompanyDebt, error) {
	debt, err := s.debtRepo.FindDebtByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebtNotFound
		}
		return nil, err
	}
	return debt, nil
}

// RecordPayment applies a payment against an invoice. Over-payment is
// rejected outright; the caller is expected to split an excess amount
// into a separate credit.
func (s *debtService) RecordPayment(debtID uuid.UUID, req *PaymentRequest, actor string) (*model.CompanyDebt, error) {
	// 1. Basic validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var debt *model.CompanyDebt

	// 2. Balance arithmetic under a row lock
	err := s.debtRepo.Transaction(func(tx *gorm.DB) error {
		locked, err := s.debtRepo.LockDebtForUpdate(tx, debtID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDebtNotFound
			}
			return err
		}

		if !locked.Status.CanAcceptPayment() {
			return ErrDebtSettled
		}
		if req.Amount.GreaterThan(locked.Remaining) {
			return fmt.Errorf("%w: remaining %s, offered %s",
				ErrOverPayment, locked.Remaining.StringFixed(2), req.Amount.StringFixed(2))
		}

		method := req.Method
		if method == "" {
			method = "cash"
		}
		payment := &model.DebtPayment{
			DebtID:      debtID,
			PaymentDate: time.Now(),
			Amount:      req.Amount,
			Method:      method,
			Reference:   req.Reference,
			Notes:       req.Notes,
			ReceivedBy:  actor,
		}
		payment.CreatedBy = actor
		payment.UpdatedBy = actor
		if err := s.debtRepo.CreatePayment(tx, payment); err != nil {
			return err
		}

		locked.PaidAmount = locked.PaidAmount.Add(req.Amount)
		locked.Remaining = locked.Remaining.Sub(req.Amount)
		if locked.Remaining.IsZero() {
			locked.Status = model.DebtStatusPaid
		} else {
			locked.Status = model.DebtStatusPartial
		}
		locked.UpdatedBy = actor
		if err := s.debtRepo.SaveDebt(tx, locked); err != nil {
			return err
		}

		if err := s.debtRepo.AppendInteraction(tx, &model.DebtInteraction{
			DebtID: debtID,
			Type:   model.InteractionPaymentReceived,
			Description: fmt.Sprintf("Payment of %s via %s, remaining %s",
				req.Amount.StringFixed(2), method, locked.Remaining.StringFixed(2)),
			Actor: actor,
		}); err != nil {
			return err
		}

		debt = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Notify after commit
	go func() {
		companyName := ""
		if company, err := s.debtRepo.FindCompanyByID(debt.CompanyID); err == nil {
			companyName = company.Name
		}
		s.notifier.NotifyDebtPayment(companyName, debt.InvoiceNumber, req.Amount, debt.Remaining)
	}()

	return debt, nil
}

func (s *debtService) GetPayments(debtID uuid.UUID) ([]model.DebtPayment, error) {
	if _, err := s.debtRepo.FindDebtByID(debtID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebtNotFound
		}
		return nil, err
	}
	return s.debtRepo.FindPayments(debtID)
}

func (s *debtService) CompanySummaries() ([]repository.CompanyDebtSummary, error) {
	return s.debtRepo.CompanySummaries()
}

func (s *debtService) GetInteractions(debtID uuid.UUID) ([]model.DebtInteraction, error) {
	if _, err := s.debtRepo.FindDebtByID(debtID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebtNotFound
		}
		return nil, err
	}
	return s.debtRepo.FindInteractions(debtID)
}

func (s *debtService) Report(start, end time.Time) (*DebtReport, error) {
	stats, err := s.debtRepo.ReportStats(start, end)
	if err != nil {
		return nil, err
	}

	// Collection rate is paid/total*100, zero when nothing was invoiced.
	rate := decimal.Zero
	if stats.TotalAmount.IsPositive() {
		rate = stats.PaidAmount.Div(stats.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	topDebts, err := s.debtRepo.FindDebts(repository.DebtFilter{
		DateFrom: &start,
		DateTo:   &end,
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(topDebts, func(i, j int) bool {
		return topDebts[i].Remaining.GreaterThan(topDebts[j].Remaining)
	})
	if len(topDebts) > 10 {
		topDebts = topDebts[:10]
	}

	companies, err := s.debtRepo.CompanySummaries()
	if err != nil {
		return nil, err
	}

	return &DebtReport{
		Stats:          stats,
		CollectionRate: rate,
		TopDebts:       topDebts,
		Companies:      companies,
	}, nil
}

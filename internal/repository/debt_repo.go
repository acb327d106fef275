package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/albadr/lighting-pos/internal/model"
)

// DebtFilter narrows debt listings and searches.
type DebtFilter struct {
	CompanyID     *uuid.UUID
	Status        model.DebtStatus
	OverdueOnly   bool
	InvoiceNumber string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// DebtReportStats are the aggregates for a reporting period.
type DebtReportStats struct {
	TotalDebts      int64           `json:"total_debts"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaidDebts       int64           `json:"paid_debts"`
	PendingDebts    int64           `json:"pending_debts"`
	PartialDebts    int64           `json:"partial_debts"`
	OverdueDebts    int64           `json:"overdue_debts"`
}

// CompanyDebtSummary is the per-company rollup.
type CompanyDebtSummary struct {
	CompanyID       uuid.UUID       `json:"company_id"`
	CompanyName     string          `json:"company_name"`
	TotalDebts      int64           `json:"total_debts"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	OverdueDebts    int64           `json:"overdue_debts"`
}

type DebtRepository interface {
	CreateCompany(company *model.Company) error
	FindCompanies(activeOnly bool) ([]model.Company, error)
	FindCompanyByID(id uuid.UUID) (*model.Company, error)
	UpdateCompany(company *model.Company) error

	CreateDebt(tx *gorm.DB, debt *model.CompanyDebt) error
	FindDebts(filter DebtFilter) ([]model.CompanyDebt, error)
	FindDebtByID(id uuid.UUID) (*model.CompanyDebt, error)
	LockDebtForUpdate(tx *gorm.DB, id uuid.UUID) (*model.CompanyDebt, error)
	SaveDebt(tx *gorm.DB, debt *model.CompanyDebt) error

	CreatePayment(tx *gorm.DB, payment *model.DebtPayment) error
	FindPayments(debtID uuid.UUID) ([]model.DebtPayment, error)

	AppendInteraction(tx *gorm.DB, interaction *model.DebtInteraction) error
	FindInteractions(debtID uuid.UUID) ([]model.DebtInteraction, error)

	ReportStats(start, end time.Time) (*DebtReportStats, error)
	CompanySummaries() ([]CompanyDebtSummary, error)

	Transaction(fn func(tx *gorm.DB) error) error
}

type debtRepo struct {
	db *gorm.DB
}

func NewDebtRepo(db *gorm.DB) DebtRepository {
	return &debtRepo{db}
}

func (r *debtRepo) CreateCompany(company *model.Company) error {
	return r.db.Create(company).Error
}

func (r *debtRepo) FindCompanies(activeOnly bool) ([]model.Company, error) {
	q := r.db.Model(&model.Company{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var companies []model.Company
	err := q.Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *debtRepo) FindCompanyByID(id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *debtRepo) UpdateCompany(company *model.Company) error {
	return r.db.Save(company).Error
}

func (r *debtRepo) CreateDebt(tx *gorm.DB, debt *model.CompanyDebt) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(debt).Error
}

func (r *debtRepo) FindDebts(filter DebtFilter) ([]model.CompanyDebt, error) {
	q := r.db.Preload("Company")
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OverdueOnly {
		q = q.Where("due_date < ? AND status <> ?", time.Now(), model.DebtStatusPaid)
	}
	if filter.InvoiceNumber != "" {
		q = q.Where("invoice_number LIKE ?", "%"+filter.InvoiceNumber+"%")
	}
	if filter.DateFrom != nil {
		q = q.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("invoice_date <= ?", *filter.DateTo)
	}
	var debts []model.CompanyDebt
	err := q.Order("due_date ASC").Find(&debts).Error
	return debts, err
}

func (r *debtRepo) FindDebtByID(id uuid.UUID) (*model.CompanyDebt, error) {
	var debt model.CompanyDebt
	err := r.db.Preload("Company").Preload("Payments").First(&debt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepo) LockDebtForUpdate(tx *gorm.DB, id uuid.UUID) (*model.CompanyDebt, error) {
	var debt model.CompanyDebt
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&debt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepo) SaveDebt(tx *gorm.DB, debt *model.CompanyDebt) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(debt).Error
}

func (r *debtRepo) CreatePayment(tx *gorm.DB, payment *model.DebtPayment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(payment).Error
}

func (r *debtRepo) FindPayments(debtID uuid.UUID) ([]model.DebtPayment, error) {
	var payments []model.DebtPayment
	err := r.db.Where("debt_id = ?", debtID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

func (r *debtRepo) AppendInteraction(tx *gorm.DB, interaction *model.DebtInteraction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(interaction).Error
}

func (r *debtRepo) FindInteractions(debtID uuid.UUID) ([]model.DebtInteraction, error) {
	var interactions []model.DebtInteraction
	err := r.db.Where("debt_id = ?", debtID).
		Order("created_at ASC").
		Find(&interactions).Error
	return interactions, err
}

func (r *debtRepo) ReportStats(start, end time.Time) (*DebtReportStats, error) {
	var stats DebtReportStats
	base := r.db.Model(&model.CompanyDebt{}).Where("invoice_date BETWEEN ? AND ?", start, end)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalDebts).Error; err != nil {
		return nil, err
	}

	type sums struct {
		Total     decimal.NullDecimal
		Paid      decimal.NullDecimal
		Remaining decimal.NullDecimal
	}
	var s sums
	err := base.Session(&gorm.Session{}).
		Select(`
			COALESCE(SUM(total_amount), 0) as total,
			COALESCE(SUM(paid_amount), 0) as paid,
			COALESCE(SUM(remaining_amount), 0) as remaining
		`).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.Total.Valid {
		stats.TotalAmount = s.Total.Decimal
	}
	if s.Paid.Valid {
		stats.PaidAmount = s.Paid.Decimal
	}
	if s.Remaining.Valid {
		stats.RemainingAmount = s.Remaining.Decimal
	}

	counts := []struct {
		status model.DebtStatus
		dest   *int64
	}{
		{model.DebtStatusPaid, &stats.PaidDebts},
		{model.DebtStatusPending, &stats.PendingDebts},
		{model.DebtStatusPartial, &stats.PartialDebts},
	}
	for _, c := range counts {
		err := base.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error
		if err != nil {
			return nil, err
		}
	}

	err = base.Session(&gorm.Session{}).
		Where("due_date < ? AND status <> ?", time.Now(), model.DebtStatusPaid).
		Count(&stats.OverdueDebts).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *debtRepo) CompanySummaries() ([]CompanyDebtSummary, error) {
	var summaries []CompanyDebtSummary
	err := r.db.Model(&model.Company{}).
		Select(`
			companies.id as company_id,
			companies.name as company_name,
			COUNT(company_debts.id) as total_debts,
			COALESCE(SUM(company_debts.total_amount), 0) as total_amount,
			COALESCE(SUM(company_debts.paid_amount), 0) as paid_amount,
			COALESCE(SUM(company_debts.remaining_amount), 0) as remaining_amount,
			COUNT(CASE WHEN company_debts.due_date < ? AND company_debts.status <> ? THEN 1 END) as overdue_debts
		`, time.Now(), model.DebtStatusPaid).
		Joins("LEFT JOIN company_debts ON company_debts.company_id = companies.id AND company_debts.deleted_at IS NULL").
		Where("companies.is_active = ?", true).
		Group("companies.id, companies.name").
		Order("remaining_amount DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (r *debtRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

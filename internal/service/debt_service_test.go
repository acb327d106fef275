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

func newDebtService(t *testing.T, db *gorm.DB, notifier *stubNotifier) DebtService {
	t.Helper()
	return NewDebtService(repository.NewDebtRepo(db), notifier, zerolog.Nop())
}

func seedCompany(t *testing.T, svc DebtService, name string, termsDays int) *model.Company {
	t.Helper()
	company := &model.Company{Name: name, PaymentTermsDays: termsDays}
	require.NoError(t, svc.CreateCompany(company, "tester"))
	return company
}

func seedDebt(t *testing.T, svc DebtService, companyID uuid.UUID, invoice string, total int64) *model.CompanyDebt {
	t.Helper()
	debt := &model.CompanyDebt{
		CompanyID:     companyID,
		InvoiceNumber: invoice,
		TotalAmount:   decimal.NewFromInt(total),
	}
	require.NoError(t, svc.CreateDebt(debt, "tester"))
	return debt
}

func TestCreateDebtDerivesDueDateFromTerms(t *testing.T) {
	db := newTestDB(t)
	svc := newDebtService(t, db, newStubNotifier())

	company := seedCompany(t, svc, "Nour Lighting Co", 45)
	debt := seedDebt(t, svc, company.ID, "INV-1001", 100000)

	assert.Equal(t, model.DebtStatusPending, debt.Status)
	assert.True(t, debt.PaidAmount.IsZero())
	assert.True(t, debt.Remaining.Equal(decimal.NewFromInt(100000)))
	assert.WithinDuration(t, debt.InvoiceDate.AddDate(0, 0, 45), debt.DueDate, time.Second)

	interactions, err := svc.GetInteractions(debt.ID)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, model.InteractionDebtCreated, interactions[0].Type)
}

func TestCreateDebtUnknownCompany(t *testing.T) {
	db := newTestDB(t)
	svc := newDebtService(t, db, newStubNotifier())

	debt := &model.CompanyDebt{
		CompanyID:     uuid.New(),
		InvoiceNumber: "INV-9",
		TotalAmount:   decimal.NewFromInt(500),
	}
	err := svc.CreateDebt(debt, "tester")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestRecordPaymentLifecycle(t *testing.T) {
	db := newTestDB(t)
	notifier := newStubNotifier()
	svc := newDebtService(t, db, notifier)

	company := seedCompany(t, svc, "Baghdad Wholesale", 30)
	debt := seedDebt(t, svc, company.ID, "INV-2001", 100000)

	t.Run("partial payment", func(t *testing.T) {
		updated, err := svc.RecordPayment(debt.ID, &PaymentRequest{
			Amount: decimal.NewFromInt(40000),
			Method: "transfer",
		}, "Huda")
		require.NoError(t, err)
		assert.Equal(t, model.DebtStatusPartial, updated.Status)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(40000)))
		assert.True(t, updated.Remaining.Equal(decimal.NewFromInt(60000)))
	})

	t.Run("over-payment rejected", func(t *testing.T) {
		_, err := svc.RecordPayment(debt.ID, &PaymentRequest{
			Amount: decimal.NewFromInt(70000),
		}, "Huda")
		assert.ErrorIs(t, err, ErrOverPayment)
	})

	t.Run("settling payment", func(t *testing.T) {
		updated, err := svc.RecordPayment(debt.ID, &PaymentRequest{
			Amount: decimal.NewFromInt(60000),
		}, "Huda")
		require.NoError(t, err)
		assert.Equal(t, model.DebtStatusPaid, updated.Status)
		assert.True(t, updated.Remaining.IsZero())
	})

	t.Run("settled debt takes no more", func(t *testing.T) {
		_, err := svc.RecordPayment(debt.ID, &PaymentRequest{
			Amount: decimal.NewFromInt(1),
		}, "Huda")
		assert.ErrorIs(t, err, ErrDebtSettled)
	})

	payments, err := svc.GetPayments(debt.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, "Huda", payments[0].ReceivedBy)

	interactions, err := svc.GetInteractions(debt.ID)
	require.NoError(t, err)
	assert.Len(t, interactions, 3, "debt_created plus two payments")

	require.Eventually(t, func() bool {
		return notifier.count("debt_payment") == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRecordPaymentDefaultsToCash(t *testing.T) {
	db := newTestDB(t)
	svc := newDebtService(t, db, newStubNotifier())

	company := seedCompany(t, svc, "Erbil Fixtures", 30)
	debt := seedDebt(t, svc, company.ID, "INV-3001", 5000)

	_, err := svc.RecordPayment(debt.ID, &PaymentRequest{Amount: decimal.NewFromInt(1000)}, "tester")
	require.NoError(t, err)

	payments, err := svc.GetPayments(debt.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "cash", payments[0].Method)
}

func TestDebtReportCollectionRate(t *testing.T) {
	db := newTestDB(t)
	svc := newDebtService(t, db, newStubNotifier())

	t.Run("zero invoiced", func(t *testing.T) {
		report, err := svc.Report(time.Now().AddDate(0, 0, -7), time.Now())
		require.NoError(t, err)
		assert.True(t, report.CollectionRate.IsZero())
	})

	company := seedCompany(t, svc, "Mosul Electric", 30)
	debt := seedDebt(t, svc, company.ID, "INV-4001", 200000)
	_, err := svc.RecordPayment(debt.ID, &PaymentRequest{Amount: decimal.NewFromInt(50000)}, "tester")
	require.NoError(t, err)

	t.Run("partial collection", func(t *testing.T) {
		report, err := svc.Report(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.True(t, report.CollectionRate.Equal(decimal.NewFromInt(25)),
			"50000 of 200000 collected, got %s", report.CollectionRate)
		require.Len(t, report.TopDebts, 1)
		assert.Len(t, report.Companies, 1)
	})
}

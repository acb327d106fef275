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

func newExpenseService(t *testing.T, db *gorm.DB) ExpenseService {
	t.Helper()
	return NewExpenseService(repository.NewExpenseRepo(db), newStubNotifier(), zerolog.Nop())
}

func TestCreateExpenseDefaultsDate(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(t, db)

	expense := &model.Expense{
		Description: "Generator fuel",
		Amount:      decimal.NewFromInt(25000),
		Category:    "utilities",
	}
	require.NoError(t, svc.CreateExpense(expense, "tester"))
	assert.WithinDuration(t, time.Now(), expense.ExpenseDate, time.Minute)

	err := svc.CreateExpense(&model.Expense{Description: "free"}, "tester")
	assert.Error(t, err, "zero amount fails dgt0")
}

func TestExpenseReport(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(t, db)

	for _, amount := range []int64{10000, 15000} {
		require.NoError(t, svc.CreateExpense(&model.Expense{
			Description: "Shop rent share",
			Amount:      decimal.NewFromInt(amount),
		}, "tester"))
	}

	report, err := svc.Report(time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Summary.TotalExpenses)
	assert.True(t, report.Summary.TotalAmount.Equal(decimal.NewFromInt(25000)))
	assert.Len(t, report.Expenses, 2)
}

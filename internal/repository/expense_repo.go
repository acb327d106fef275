package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
)

type ExpenseSummary struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalExpenses int64           `json:"total_expenses"`
}

type ExpenseRepository interface {
	Create(expense *model.Expense) error
	FindAll() ([]model.Expense, error)
	FindByID(id uuid.UUID) (*model.Expense, error)
	FindBetween(start, end time.Time) ([]model.Expense, error)
	Summarize(start, end time.Time) (*ExpenseSummary, error)
	Update(expense *model.Expense) error
	Delete(id uuid.UUID) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.Expense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) FindAll() ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Order("expense_date DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) FindByID(id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) FindBetween(start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Where("expense_date BETWEEN ? AND ?", start, end).
		Order("expense_date DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Summarize(start, end time.Time) (*ExpenseSummary, error) {
	var summary ExpenseSummary

	var total decimal.NullDecimal
	err := r.db.Model(&model.Expense{}).
		Where("expense_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	if total.Valid {
		summary.TotalAmount = total.Decimal
	}

	err = r.db.Model(&model.Expense{}).
		Where("expense_date BETWEEN ? AND ?", start, end).
		Count(&summary.TotalExpenses).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *expenseRepo) Update(expense *model.Expense) error {
	return r.db.Save(expense).Error
}

func (r *expenseRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Expense{}, "id = ?", id).Error
}

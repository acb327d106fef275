package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/notify"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/validator"
)

var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseReport struct {
	Summary  *repository.ExpenseSummary `json:"summary"`
	Expenses []model.Expense            `json:"expenses"`
}

type ExpenseService interface {
	CreateExpense(expense *model.Expense, actor string) error
	GetAllExpenses() ([]model.Expense, error)
	GetExpenseByID(id uuid.UUID) (*model.Expense, error)
	UpdateExpense(id uuid.UUID, updates *model.Expense, actor string) (*model.Expense, error)
	DeleteExpense(id uuid.UUID) error
	Report(start, end time.Time) (*ExpenseReport, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	notifier    notify.Notifier
	log         zerolog.Logger
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, notifier notify.Notifier, log zerolog.Logger) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		notifier:    notifier,
		log:         log.With().Str("service", "expense").Logger(),
	}
}

func (s *expenseService) CreateExpense(expense *model.Expense, actor string) error {
	if errs := validator.ValidateStruct(expense); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = time.Now()
	}
	expense.CreatedBy = actor
	expense.UpdatedBy = actor

	if err := s.expenseRepo.Create(expense); err != nil {
		return err
	}

	go s.notifier.NotifyExpense(expense.Description, expense.Amount, expense.Currency)
	return nil
}

func (s *expenseService) GetAllExpenses() ([]model.Expense, error) {
	return s.expenseRepo.FindAll()
}

func (s *expenseService) GetExpenseByID(id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) UpdateExpense(id uuid.UUID, updates *model.Expense, actor string) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	expense.Description = updates.Description
	expense.Amount = updates.Amount
	expense.Currency = updates.Currency
	expense.Category = updates.Category
	if !updates.ExpenseDate.IsZero() {
		expense.ExpenseDate = updates.ExpenseDate
	}
	expense.UpdatedBy = actor

	if errs := validator.ValidateStruct(expense); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.expenseRepo.Update(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotFound
		}
		return err
	}
	return s.expenseRepo.Delete(id)
}

func (s *expenseService) Report(start, end time.Time) (*ExpenseReport, error) {
	summary, err := s.expenseRepo.Summarize(start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindBetween(start, end)
	if err != nil {
		return nil, err
	}
	return &ExpenseReport{Summary: summary, Expenses: expenses}, nil
}

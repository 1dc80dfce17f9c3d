package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/validation"
)

// BudgetService handles the household ledger: entries, validation and
// monthly summaries. Sums are carried in decimals so a ledger of many
// small cent amounts never drifts.
type BudgetService struct {
	budgetRepo      *repository.BudgetRepository
	transactionRepo *repository.TransactionRepository
}

// NewBudgetService creates a new BudgetService with the provided repositories.
func NewBudgetService(budgetRepo *repository.BudgetRepository, transactionRepo *repository.TransactionRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, transactionRepo: transactionRepo}
}

// List retrieves ledger entries, optionally bounded by [start, end].
func (s *BudgetService) List(start, end time.Time) ([]model.BudgetEntry, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}
	entries, err := s.budgetRepo.List(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveBudget, err)
	}
	return entries, nil
}

// Create validates and stores a new ledger entry, assigning it a UUID.
func (s *BudgetService) Create(e model.BudgetEntry) (model.BudgetEntry, error) {
	if e.Type != model.BudgetIncome && e.Type != model.BudgetExpense {
		return model.BudgetEntry{}, apperrors.ErrInvalidType
	}
	if e.Category == "" {
		return model.BudgetEntry{}, apperrors.ErrInvalidCategory
	}
	if e.Amount < 0 {
		return model.BudgetEntry{}, apperrors.ErrNegativeAmount
	}
	if e.Date.IsZero() {
		return model.BudgetEntry{}, apperrors.ErrInvalidDate
	}

	e.ID = uuid.New().String()
	e.Date = e.Date.UTC()
	if err := s.budgetRepo.Create(e); err != nil {
		return model.BudgetEntry{}, err
	}
	return e, nil
}

// Delete removes a ledger entry by UUID.
func (s *BudgetService) Delete(id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	err := s.budgetRepo.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrBudgetEntryNotFound
	}
	return err
}

// Summary aggregates one calendar month: income, expenses, net savings
// with the savings rate, the per-category expense split and the cash
// deployed to the broker that month.
//
// Parameters:
//   - month: calendar month in "2006-01" format
func (s *BudgetService) Summary(month string) (model.BudgetSummary, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return model.BudgetSummary{}, fmt.Errorf("%w: want YYYY-MM", apperrors.ErrInvalidDate)
	}
	end := start.AddDate(0, 1, -1)

	entries, err := s.budgetRepo.List(start, end)
	if err != nil {
		return model.BudgetSummary{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveBudget, err)
	}

	income := decimal.Zero
	expenses := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)

	for _, e := range entries {
		amount := decimal.NewFromFloat(e.Amount)
		switch e.Type {
		case model.BudgetIncome:
			income = income.Add(amount)
		case model.BudgetExpense:
			expenses = expenses.Add(amount)
			byCategory[e.Category] = byCategory[e.Category].Add(amount)
		}
	}

	net := income.Sub(expenses)

	summary := model.BudgetSummary{
		Month:      month,
		Income:     income.InexactFloat64(),
		Expenses:   expenses.InexactFloat64(),
		NetSavings: net.InexactFloat64(),
		ByCategory: make(map[string]float64, len(byCategory)),
	}
	for cat, v := range byCategory {
		summary.ByCategory[cat] = v.InexactFloat64()
	}
	if income.IsPositive() {
		summary.SavingsRate = net.Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	invested, err := s.monthlyInvested(start, end)
	if err != nil {
		return model.BudgetSummary{}, err
	}
	summary.Invested = invested

	return summary, nil
}

// monthlyInvested sums the cash that left for the broker in [start,
// end]: purchases add, sales subtract.
func (s *BudgetService) monthlyInvested(start, end time.Time) (float64, error) {
	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	invested := decimal.Zero
	for _, tx := range transactions {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		invested = invested.Sub(decimal.NewFromFloat(tx.LocalValue))
	}
	return invested.InexactFloat64(), nil
}

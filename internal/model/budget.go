package model

import "time"

// Budget entry types.
const (
	BudgetIncome  = "income"
	BudgetExpense = "expense"
)

// BudgetEntry is one household ledger movement: an income or an expense
// with a free-form category and optional note.
type BudgetEntry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// BudgetSummary aggregates one calendar month of the ledger together
// with the amount moved into the broker that month.
type BudgetSummary struct {
	Month       string             `json:"month"` // YYYY-MM
	Income      float64            `json:"income"`
	Expenses    float64            `json:"expenses"`
	NetSavings  float64            `json:"netSavings"`
	SavingsRate float64            `json:"savingsRate"` // percent of income, 0 when income is 0
	Invested    float64            `json:"invested"`    // cash deployed via the broker this month
	ByCategory  map[string]float64 `json:"byCategory"`  // expenses per category
}

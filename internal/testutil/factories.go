package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test
// transactions.
//
// Example usage:
//
//	// Simple creation with defaults (a 1000 EUR purchase of 10 units)
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction().
//	    WithDate("2024-03-15").
//	    WithIsin("IE00BK5BQT80").
//	    Sell(5, 500).
//	    Build(t, db)
type TransactionBuilder struct {
	ID         string
	Date       time.Time
	Product    string
	Isin       string
	Quantity   float64
	LocalValue float64
	Fees       float64
	Currency   string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		ID:         MakeID(),
		Date:       Date("2024-01-02"),
		Product:    "ISHARES CORE MSCI WORLD",
		Isin:       "IE00B4L5Y983",
		Quantity:   10,
		LocalValue: -1000,
		Fees:       2.5,
		Currency:   "EUR",
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets the transaction date from a YYYY-MM-DD string.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = Date(date)
	return b
}

// WithIsin sets a custom ISIN.
func (b *TransactionBuilder) WithIsin(isin string) *TransactionBuilder {
	b.Isin = isin
	return b
}

// WithProduct sets a custom product name.
func (b *TransactionBuilder) WithProduct(product string) *TransactionBuilder {
	b.Product = product
	return b
}

// Buy configures a purchase: positive quantity, negative cash flow.
func (b *TransactionBuilder) Buy(quantity, spent float64) *TransactionBuilder {
	b.Quantity = quantity
	b.LocalValue = -spent
	return b
}

// Sell configures a sale: negative quantity, positive cash flow.
func (b *TransactionBuilder) Sell(quantity, proceeds float64) *TransactionBuilder {
	b.Quantity = -quantity
	b.LocalValue = proceeds
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO txn (id, date, product, isin, quantity, local_value, fees, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		b.ID, b.Date.Format("2006-01-02"), b.Product, b.Isin,
		b.Quantity, b.LocalValue, b.Fees, b.Currency,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:         b.ID,
		Date:       b.Date,
		Product:    b.Product,
		Isin:       b.Isin,
		Quantity:   b.Quantity,
		LocalValue: b.LocalValue,
		Fees:       b.Fees,
		Currency:   b.Currency,
	}
}

// CreateMapping stores an ISIN to ticker mapping row.
func CreateMapping(t *testing.T, db *sql.DB, isin, ticker, category string) model.Mapping {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO instrument_mapping (isin, ticker, category) VALUES (?, ?, ?)`,
		isin, ticker, category,
	)
	if err != nil {
		t.Fatalf("Failed to create test mapping: %v", err)
	}
	return model.Mapping{Isin: isin, Ticker: ticker, Category: category}
}

// CreatePrice stores one daily close for a ticker.
func CreatePrice(t *testing.T, db *sql.DB, ticker, date string, close float64) model.PricePoint {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO price (ticker, date, close_price) VALUES (?, ?, ?)`,
		ticker, date, close,
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
	return model.PricePoint{Ticker: ticker, Date: Date(date), ClosePrice: close}
}

// CreateBudgetEntry stores one ledger entry.
func CreateBudgetEntry(t *testing.T, db *sql.DB, date, entryType, category string, amount float64) model.BudgetEntry {
	t.Helper()

	e := model.BudgetEntry{
		ID:       MakeID(),
		Date:     Date(date),
		Type:     entryType,
		Category: category,
		Amount:   amount,
	}
	_, err := db.Exec(
		`INSERT INTO budget_entry (id, date, type, category, amount, note) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, date, e.Type, e.Category, e.Amount, e.Note,
	)
	if err != nil {
		t.Fatalf("Failed to create test budget entry: %v", err)
	}
	return e
}

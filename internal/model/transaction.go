package model

import "time"

// Transaction represents a single brokerage transaction imported from a
// DEGIRO CSV export. The ID is a content-derived hash used as the
// deduplication key: re-importing a file that contains already-seen rows
// is a no-op.
//
// Sign conventions:
//   - Quantity: positive = buy (long increase), negative = sell
//   - LocalValue: signed cash flow in the reporting currency; negative
//     means money was spent acquiring the position
type Transaction struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Product    string    `json:"product"`
	Isin       string    `json:"isin"`
	Quantity   float64   `json:"quantity"`
	LocalValue float64   `json:"localValue"`
	Fees       float64   `json:"fees"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// TransactionResponse represents a transaction enriched with its ticker
// mapping for API responses. Ticker and Category are empty when the ISIN
// has no mapping row.
type TransactionResponse struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Product    string    `json:"product"`
	Isin       string    `json:"isin"`
	Ticker     string    `json:"ticker,omitempty"`
	Category   string    `json:"category,omitempty"`
	Quantity   float64   `json:"quantity"`
	LocalValue float64   `json:"localValue"`
	Fees       float64   `json:"fees"`
	Currency   string    `json:"currency"`
}

// ImportResult summarizes a CSV import run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

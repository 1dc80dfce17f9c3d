package model

import "time"

// PricePoint is one closing price observation for a ticker. Prices are
// irregular in time: weekends, holidays and sync gaps leave holes that
// the valuation engine bridges with as-of lookups.
// At most one row exists per (ticker, date).
type PricePoint struct {
	Ticker     string    `json:"ticker"`
	Date       time.Time `json:"date"`
	ClosePrice float64   `json:"closePrice"`
}

// PriceSyncResult reports the outcome of a price synchronization run.
type PriceSyncResult struct {
	Added   int      `json:"added"`
	Tickers []string `json:"tickers"`
}

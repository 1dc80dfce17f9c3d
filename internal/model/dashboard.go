package model

import "time"

// HoldingView is one row of the dashboard holdings table: an asset that
// is currently held (cumulative quantity above the rounding epsilon)
// with its mark-to-market valuation.
type HoldingView struct {
	Product      string  `json:"product"`
	Isin         string  `json:"isin"`
	Ticker       string  `json:"ticker"`
	Category     string  `json:"category,omitempty"`
	Quantity     float64 `json:"quantity"`
	NetInvested  float64 `json:"netInvested"`
	CurrentPrice float64 `json:"currentPrice"`
	MarketValue  float64 `json:"marketValue"`
	GainLoss     float64 `json:"gainLoss"`
	GainLossPct  float64 `json:"gainLossPct"`
}

// DashboardSummary is the aggregate header of the holdings dashboard.
type DashboardSummary struct {
	TotalValue    float64       `json:"totalValue"`
	TotalInvested float64       `json:"totalInvested"`
	TotalGainLoss float64       `json:"totalGainLoss"`
	GainLossPct   float64       `json:"gainLossPct"`
	Holdings      []HoldingView `json:"holdings"`
	UnmappedIsins []string      `json:"unmappedIsins,omitempty"`
}

// HistoryPoint is one day of the portfolio-value-versus-cost chart.
type HistoryPoint struct {
	Date        time.Time `json:"date"`
	MarketValue float64   `json:"marketValue"`
	Invested    float64   `json:"invested"`
}

// AssetDetail is the per-asset drill-down view: identity, KPIs, the
// price history and every transaction for the asset.
type AssetDetail struct {
	Product      string                `json:"product"`
	Isin         string                `json:"isin"`
	Ticker       string                `json:"ticker"`
	Quantity     float64               `json:"quantity"`
	NetInvested  float64               `json:"netInvested"`
	LastPrice    float64               `json:"lastPrice"`
	MarketValue  float64               `json:"marketValue"`
	GainLoss     float64               `json:"gainLoss"`
	Prices       []PricePoint          `json:"prices"`
	Transactions []TransactionResponse `json:"transactions"`
}

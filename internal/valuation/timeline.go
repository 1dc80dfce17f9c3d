package valuation

import (
	"sort"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// CashFlow is one transaction projected onto the scan timeline. Ticker
// is empty when the instrument's ISIN has no mapping; such flows still
// count toward invested cash but cannot move holdings.
type CashFlow struct {
	Ticker     string
	Isin       string
	Quantity   float64
	LocalValue float64 // signed; negative = cash out (purchase)
	Fees       float64
}

// Timeline is the left-join of transactions with the ISIN→ticker
// mapping, grouped by calendar day.
type Timeline struct {
	Flows map[time.Time][]CashFlow
	Start time.Time

	// Unmapped lists ISINs that appeared in transactions without a
	// mapping, sorted, each at most once.
	Unmapped []string
}

// BuildTimeline joins transactions against mappings and groups the
// resulting cash flows by day. Transactions are never dropped: an
// unmapped ISIN produces a tickerless flow and a warning entry rather
// than silently vanishing from invested totals.
func BuildTimeline(txs []model.Transaction, mappings []model.Mapping) Timeline {
	tickerByIsin := make(map[string]string, len(mappings))
	for _, m := range mappings {
		tickerByIsin[m.Isin] = m.Ticker
	}

	tl := Timeline{Flows: make(map[time.Time][]CashFlow)}
	unmapped := make(map[string]bool)

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		d := Day(tx.Date)
		if tl.Start.IsZero() || d.Before(tl.Start) {
			tl.Start = d
		}

		ticker := tickerByIsin[tx.Isin]
		if ticker == "" && tx.Isin != "" {
			unmapped[tx.Isin] = true
		}
		tl.Flows[d] = append(tl.Flows[d], CashFlow{
			Ticker:     ticker,
			Isin:       tx.Isin,
			Quantity:   tx.Quantity,
			LocalValue: tx.LocalValue,
			Fees:       tx.Fees,
		})
	}

	for isin := range unmapped {
		tl.Unmapped = append(tl.Unmapped, isin)
	}
	sort.Strings(tl.Unmapped)

	return tl
}

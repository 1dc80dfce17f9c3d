package valuation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
)

// holdingEpsilon filters float residue left by sell-offs: positions
// smaller than this are treated as closed.
const holdingEpsilon = 0.001

// SeriesFetcher fetches daily closing values for a symbol over a date
// range. The Yahoo client satisfies it in production; tests substitute
// canned series.
type SeriesFetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]Point, error)
}

// TradeEntry is one row of the simulation trade log. Real entries
// mirror actual transactions; shadow entries record the synthetic
// benchmark purchase made with the same day's net cash.
type TradeEntry struct {
	Date      time.Time `json:"date"`
	Symbol    string    `json:"symbol"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	FxRate    float64   `json:"fx_rate"`
	Shadow    bool      `json:"shadow"`
}

// ValuationPoint is one day of the scan output, both legs in the
// reporting currency.
type ValuationPoint struct {
	Date        time.Time `json:"date"`
	RealValue   float64   `json:"real_value"`
	ShadowValue float64   `json:"shadow_value"`
}

// Result is the full output of a benchmark simulation.
type Result struct {
	Benchmark      string           `json:"benchmark"`
	Points         []ValuationPoint `json:"points"`
	InvestedReal   float64          `json:"invested_real"`
	InvestedShadow float64          `json:"invested_shadow"`
	ShadowUnits    float64          `json:"shadow_units"`
	TradeLog       []TradeEntry     `json:"trade_log"`
	Unmapped       []string         `json:"unmapped_isins,omitempty"`

	RealDrawdown      []DrawdownPoint `json:"real_drawdown"`
	ShadowDrawdown    []DrawdownPoint `json:"shadow_drawdown"`
	MaxRealDrawdown   float64         `json:"max_real_drawdown"`
	MaxShadowDrawdown float64         `json:"max_shadow_drawdown"`
	Alpha             float64         `json:"alpha"`
	AlphaPct          float64         `json:"alpha_pct"`
}

// Simulator runs the day-by-day valuation scan comparing the real
// portfolio against a shadow portfolio that routes every net cash flow
// into a single benchmark instrument on the same day.
type Simulator struct {
	Fetcher   SeriesFetcher
	Reporting string // reporting currency, e.g. "EUR"
}

// scanState is the explicit state carried across scan days.
type scanState struct {
	holdings       map[string]float64 // ticker -> quantity
	shadowUnits    float64
	investedReal   float64
	investedShadow float64
}

// Simulate replays all transactions day by day from the first
// transaction to the latest known price, valuing both legs in the
// reporting currency.
//
// Benchmark prices and, for foreign-quoted benchmarks, FX rates are
// fetched through the Fetcher; a failed or empty benchmark fetch is
// fatal. Unmapped ISINs degrade to warnings carried in the result.
// Given identical inputs the output is reproducible bit for bit, which
// is what makes snapshot-fingerprint caching sound.
func (s *Simulator) Simulate(ctx context.Context, benchmark string, txs []model.Transaction, mappings []model.Mapping, prices []model.PricePoint) (*Result, error) {
	if benchmark == "" {
		return nil, fmt.Errorf("%w: empty benchmark ticker", apperrors.ErrInvalidTicker)
	}
	if len(txs) == 0 {
		return &Result{Benchmark: benchmark}, nil
	}

	timeline := BuildTimeline(txs, mappings)
	book := BuildPriceBook(prices)
	today := Day(time.Now())

	benchPoints, err := s.Fetcher.FetchDailyCloses(ctx, benchmark, timeline.Start, today)
	if err != nil {
		return nil, fmt.Errorf("%w: benchmark %s: %s", apperrors.ErrFetchFailed, benchmark, err)
	}
	if len(benchPoints) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrBenchmarkDataUnavailable, benchmark)
	}
	bench := NewSeries(benchPoints)

	rates, err := LoadRates(ctx, s.Fetcher, benchmark, s.Reporting, timeline.Start, today)
	if err != nil {
		return nil, err
	}

	end := scanEnd(bench, book)

	state := scanState{holdings: make(map[string]float64)}
	res := &Result{Benchmark: benchmark, Unmapped: timeline.Unmapped}

	for d := timeline.Start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayCash := 0.0
		for _, flow := range timeline.Flows[d] {
			dayCash += -flow.LocalValue
			if flow.Ticker == "" {
				continue
			}
			state.holdings[flow.Ticker] += flow.Quantity
			res.TradeLog = append(res.TradeLog, TradeEntry{
				Date:      d,
				Symbol:    flow.Ticker,
				Quantity:  flow.Quantity,
				UnitPrice: unitPrice(flow),
				FxRate:    1,
			})
		}

		if dayCash != 0 {
			state.investedReal += dayCash
			if price, ok := bench.AsOf(d); ok && price > 0 {
				if rate, okr := rates.AsOf(d); okr && rate > 0 {
					local := dayCash * rate
					units := local / price
					state.shadowUnits += units
					state.investedShadow += dayCash
					res.TradeLog = append(res.TradeLog, TradeEntry{
						Date:      d,
						Symbol:    benchmark,
						Quantity:  units,
						UnitPrice: price,
						FxRate:    rate,
						Shadow:    true,
					})
				}
			}
		}

		real := marketValue(state.holdings, book, d)

		shadow := 0.0
		if price, ok := bench.AsOf(d); ok {
			if rate, okr := rates.AsOf(d); okr && rate > 0 {
				shadow = state.shadowUnits * price / rate
			}
		}

		res.Points = append(res.Points, ValuationPoint{Date: d, RealValue: real, ShadowValue: shadow})
	}

	res.Points = trimLeadingZeros(res.Points)
	res.InvestedReal = state.investedReal
	res.InvestedShadow = state.investedShadow
	res.ShadowUnits = state.shadowUnits

	res.RealDrawdown = Drawdown(res.Points, func(p ValuationPoint) float64 { return p.RealValue })
	res.ShadowDrawdown = Drawdown(res.Points, func(p ValuationPoint) float64 { return p.ShadowValue })
	res.MaxRealDrawdown = MaxDrawdown(res.RealDrawdown)
	res.MaxShadowDrawdown = MaxDrawdown(res.ShadowDrawdown)
	if n := len(res.Points); n > 0 {
		last := res.Points[n-1]
		res.Alpha = last.RealValue - last.ShadowValue
		if last.ShadowValue != 0 {
			res.AlphaPct = res.Alpha / last.ShadowValue * 100
		}
	}

	return res, nil
}

// scanEnd picks the last scan day: the latest date any price is known
// for, benchmark included. Scanning past it would only repeat the final
// forward-filled value.
func scanEnd(bench *Series, book map[string]*Series) time.Time {
	end, _ := bench.Last()
	latest := end.Date
	for _, s := range book {
		if last, ok := s.Last(); ok && last.Date.After(latest) {
			latest = last.Date
		}
	}
	return latest
}

// marketValue values open positions as of d in quote currency terms.
// Tickers without any usable price contribute zero. Iteration is in
// sorted ticker order so summation order, and therefore float rounding,
// is stable across runs.
func marketValue(holdings map[string]float64, book map[string]*Series, d time.Time) float64 {
	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	total := 0.0
	for _, ticker := range tickers {
		qty := holdings[ticker]
		if qty <= holdingEpsilon {
			continue
		}
		if price, ok := book[ticker].AsOf(d); ok {
			total += qty * price
		}
	}
	return total
}

// unitPrice recovers the per-unit price of a real transaction from its
// signed cash flow.
func unitPrice(flow CashFlow) float64 {
	if flow.Quantity == 0 {
		return 0
	}
	return math.Abs(flow.LocalValue / flow.Quantity)
}

// trimLeadingZeros drops the leading run of days where both legs are
// exactly zero, so a portfolio whose first transactions are unmapped or
// unpriced does not render a flat dead zone.
func trimLeadingZeros(points []ValuationPoint) []ValuationPoint {
	i := 0
	for i < len(points) && points[i].RealValue == 0 && points[i].ShadowValue == 0 {
		i++
	}
	return points[i:]
}

// PortfolioHistory computes the real-leg daily series for the dashboard
// chart: market value plus cumulative invested cash per day, from the
// first transaction to today. No benchmark or FX fetch is involved, so
// it stays usable offline.
func PortfolioHistory(txs []model.Transaction, mappings []model.Mapping, prices []model.PricePoint) []model.HistoryPoint {
	if len(txs) == 0 {
		return nil
	}

	timeline := BuildTimeline(txs, mappings)
	book := BuildPriceBook(prices)
	end := Day(time.Now())

	holdings := make(map[string]float64)
	invested := 0.0

	var history []model.HistoryPoint
	for d := timeline.Start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, flow := range timeline.Flows[d] {
			invested += -flow.LocalValue
			if flow.Ticker != "" {
				holdings[flow.Ticker] += flow.Quantity
			}
		}
		history = append(history, model.HistoryPoint{
			Date:        d,
			MarketValue: marketValue(holdings, book, d),
			Invested:    invested,
		})
	}
	return history
}

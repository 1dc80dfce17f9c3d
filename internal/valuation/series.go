// Package valuation implements the portfolio valuation and benchmark
// shadow-replication engine: sparse price series alignment with as-of
// lookups, currency conversion, cash-flow timelines and the day-by-day
// valuation scan. The package is pure computation over in-memory
// snapshots; it performs no database access.
package valuation

import (
	"sort"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// Point is one dated observation of a series (a closing price or an
// FX rate).
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an irregularly sampled daily series supporting as-of
// lookups. Observations are held sorted ascending by date with at most
// one value per calendar day.
type Series struct {
	points []Point
}

// Day normalizes a timestamp to midnight UTC. All engine dates are
// day-granular; time-of-day is discarded on entry.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewSeries builds a Series from unordered observations. Dates are
// normalized to days; when several observations share a day the last
// one wins. Zero dates are dropped.
func NewSeries(points []Point) *Series {
	byDay := make(map[time.Time]float64, len(points))
	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		byDay[Day(p.Date)] = p.Value
	}

	sorted := make([]Point, 0, len(byDay))
	for d, v := range byDay {
		sorted = append(sorted, Point{Date: d, Value: v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	return &Series{points: sorted}
}

// AsOf returns the latest known value dated on or before d, or false
// when d precedes the first observation or the series is empty. The
// lookup is monotonic: the value returned for d is never drawn from a
// later date, so no future information leaks into the scan.
func (s *Series) AsOf(d time.Time) (float64, bool) {
	if s == nil || len(s.points) == 0 {
		return 0, false
	}
	d = Day(d)

	// First index with date > d; the answer sits one to the left.
	i := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(d)
	})
	if i == 0 {
		return 0, false
	}
	return s.points[i-1].Value, true
}

// Len returns the number of distinct observation days.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

// First returns the earliest observation, or false for an empty series.
func (s *Series) First() (Point, bool) {
	if s == nil || len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[0], true
}

// Last returns the latest observation, or false for an empty series.
func (s *Series) Last() (Point, bool) {
	if s == nil || len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// BuildPriceBook groups raw price points into per-ticker as-of series.
// Tickers entirely absent from the book answer every lookup with
// "unavailable"; callers treat that as zero market value, not an error.
func BuildPriceBook(prices []model.PricePoint) map[string]*Series {
	byTicker := make(map[string][]Point)
	for _, p := range prices {
		if p.Ticker == "" || p.Date.IsZero() {
			continue
		}
		byTicker[p.Ticker] = append(byTicker[p.Ticker], Point{Date: p.Date, Value: p.ClosePrice})
	}

	book := make(map[string]*Series, len(byTicker))
	for ticker, pts := range byTicker {
		book[ticker] = NewSeries(pts)
	}
	return book
}

package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/degiro"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/service"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}

// Date parses a YYYY-MM-DD string, panicking on malformed input so test
// fixtures fail loudly.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

// MockFetcher is a canned valuation.SeriesFetcher: it serves per-symbol
// point series, returns configured errors and counts calls.
type MockFetcher struct {
	Series map[string][]valuation.Point
	Errors map[string]error
	Calls  []string
}

// NewMockFetcher creates an empty MockFetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Series: make(map[string][]valuation.Point),
		Errors: make(map[string]error),
	}
}

// WithFlatSeries registers a constant daily series for a symbol over
// [start, end], both YYYY-MM-DD.
func (m *MockFetcher) WithFlatSeries(symbol, start, end string, value float64) *MockFetcher {
	for d := Date(start); !d.After(Date(end)); d = d.AddDate(0, 0, 1) {
		m.Series[symbol] = append(m.Series[symbol], valuation.Point{Date: d, Value: value})
	}
	return m
}

// FetchDailyCloses implements valuation.SeriesFetcher.
func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, _, _ time.Time) ([]valuation.Point, error) {
	m.Calls = append(m.Calls, symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	return m.Series[symbol], nil
}

// NewTestSystemService builds a SystemService over the test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// NewTestTransactionService builds a TransactionService over the test
// database with a silent logger.
func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
		degiro.NewParser(zerolog.Nop()),
		zerolog.Nop(),
	)
}

// NewTestMappingService builds a MappingService over the test database.
func NewTestMappingService(t *testing.T, db *sql.DB) *service.MappingService {
	t.Helper()
	return service.NewMappingService(repository.NewMappingRepository(db))
}

// NewTestPriceService builds a PriceService over the test database and
// the given fetcher, with history starting 2020-01-01.
func NewTestPriceService(t *testing.T, db *sql.DB, fetcher valuation.SeriesFetcher) *service.PriceService {
	t.Helper()
	return service.NewPriceService(
		repository.NewPriceRepository(db),
		repository.NewMappingRepository(db),
		fetcher,
		Date("2020-01-01"),
		zerolog.Nop(),
	)
}

// NewTestDashboardService builds a DashboardService over the test
// database.
func NewTestDashboardService(t *testing.T, db *sql.DB) *service.DashboardService {
	t.Helper()
	return service.NewDashboardService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		service.NewSettingsService(repository.NewSettingsRepository(db)),
		repository.NewBudgetRepository(db),
	)
}

// NewTestBenchmarkService builds a BenchmarkService over the test
// database and the given fetcher, defaulting to the SWDA.MI benchmark.
func NewTestBenchmarkService(t *testing.T, db *sql.DB, fetcher valuation.SeriesFetcher) *service.BenchmarkService {
	t.Helper()
	return service.NewBenchmarkService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		&valuation.Simulator{Fetcher: fetcher, Reporting: "EUR"},
		"SWDA.MI",
		zerolog.Nop(),
	)
}

// NewTestBudgetService builds a BudgetService over the test database.
func NewTestBudgetService(t *testing.T, db *sql.DB) *service.BudgetService {
	t.Helper()
	return service.NewBudgetService(
		repository.NewBudgetRepository(db),
		repository.NewTransactionRepository(db),
	)
}

// NewTestSettingsService builds a SettingsService over the test database.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()
	return service.NewSettingsService(repository.NewSettingsRepository(db))
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avitali/portfolio-dashboard/internal/testutil"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

func TestBenchmarkHandler_Simulate(t *testing.T) {
	t.Run("returns the simulation result", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher().
			WithFlatSeries("SWDA.MI", "2024-01-01", "2024-01-10", 100.0)
		handler := NewBenchmarkHandler(testutil.NewTestBenchmarkService(t, db, fetcher))

		testutil.NewTransaction().WithDate("2024-01-02").Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/benchmark/simulate",
			map[string]string{"ticker": "SWDA.MI"},
		)
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response valuation.Result
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Benchmark != "SWDA.MI" {
			t.Errorf("Expected benchmark SWDA.MI, got '%s'", response.Benchmark)
		}
		if len(response.Points) == 0 {
			t.Error("Expected a non-empty valuation series")
		}
	})

	t.Run("returns 400 when the ledger is empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewBenchmarkHandler(testutil.NewTestBenchmarkService(t, db, testutil.NewMockFetcher()))

		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/simulate", nil)
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 502 when the benchmark cannot be fetched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher()
		handler := NewBenchmarkHandler(testutil.NewTestBenchmarkService(t, db, fetcher))

		testutil.NewTransaction().Build(t, db)

		// The fetcher has no data for the default benchmark, which
		// surfaces as missing benchmark data upstream.
		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/simulate", nil)
		w := httptest.NewRecorder()

		handler.Simulate(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

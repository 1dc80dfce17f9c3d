package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

func setupDashboardHandler(t *testing.T) (*DashboardHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ds := testutil.NewTestDashboardService(t, db)
	return NewDashboardHandler(ds), db
}

func TestDashboardHandler_Summary(t *testing.T) {
	t.Run("returns the holdings snapshot", func(t *testing.T) {
		handler, db := setupDashboardHandler(t)

		testutil.NewTransaction().Buy(10, 900).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-03-01", 100)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.DashboardSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(response.Holdings))
		}
		if response.TotalValue != 1000 {
			t.Errorf("Expected total value 1000, got %f", response.TotalValue)
		}
	})
}

func TestDashboardHandler_Liquidity(t *testing.T) {
	t.Run("returns the derived liquidity figure", func(t *testing.T) {
		handler, db := setupDashboardHandler(t)

		testutil.CreateBudgetEntry(t, db, "2024-03-01", model.BudgetIncome, "salary", 2500)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/liquidity", nil)
		w := httptest.NewRecorder()

		handler.Liquidity(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Liquidity
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Manual {
			t.Error("Expected derived mode")
		}
		if response.Amount != 2500 {
			t.Errorf("Expected 2500, got %f", response.Amount)
		}
	})
}

func TestDashboardHandler_Asset(t *testing.T) {
	t.Run("returns the asset drill-down", func(t *testing.T) {
		handler, db := setupDashboardHandler(t)

		testutil.NewTransaction().Buy(10, 900).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-03-01", 100)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/asset/SWDA.MI",
			map[string]string{"ticker": "SWDA.MI"},
		)
		w := httptest.NewRecorder()

		handler.Asset(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.AssetDetail
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Ticker != "SWDA.MI" || response.Quantity != 10 {
			t.Errorf("Unexpected detail: %+v", response)
		}
	})

	t.Run("returns 404 for an unknown ticker", func(t *testing.T) {
		handler, _ := setupDashboardHandler(t)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/asset/NOPE.XX",
			map[string]string{"ticker": "NOPE.XX"},
		)
		w := httptest.NewRecorder()

		handler.Asset(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

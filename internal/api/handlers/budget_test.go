package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

func setupBudgetHandler(t *testing.T) (*BudgetHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	bs := testutil.NewTestBudgetService(t, db)
	return NewBudgetHandler(bs), db
}

func TestBudgetHandler_Create(t *testing.T) {
	t.Run("creates an entry and returns 201", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		body := `{"date":"2024-03-05","type":"expense","category":"groceries","amount":84.20,"note":"weekly shop"}`
		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.BudgetEntry
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID == "" {
			t.Error("Expected a generated id in the response")
		}
		if response.Category != "groceries" {
			t.Errorf("Expected category 'groceries', got '%s'", response.Category)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for an unknown entry type", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		body := `{"date":"2024-03-05","type":"transfer","category":"misc","amount":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a missing date", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		body := `{"type":"expense","category":"misc","amount":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/budget", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestBudgetHandler_List(t *testing.T) {
	t.Run("filters by the from/to query parameters", func(t *testing.T) {
		handler, db := setupBudgetHandler(t)

		testutil.CreateBudgetEntry(t, db, "2024-02-28", model.BudgetExpense, "rent", 900)
		testutil.CreateBudgetEntry(t, db, "2024-03-05", model.BudgetIncome, "salary", 2500)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/budget",
			map[string]string{"from": "2024-03-01", "to": "2024-03-31"},
		)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.BudgetEntry
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 entry in range, got %d", len(response))
		}
		if response[0].Category != "salary" {
			t.Errorf("Expected the March entry, got %+v", response[0])
		}
	})

	t.Run("returns 400 for a malformed date", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/budget",
			map[string]string{"from": "03/01/2024"},
		)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestBudgetHandler_Summary(t *testing.T) {
	t.Run("aggregates the requested month", func(t *testing.T) {
		handler, db := setupBudgetHandler(t)

		testutil.CreateBudgetEntry(t, db, "2024-03-01", model.BudgetIncome, "salary", 2500)
		testutil.CreateBudgetEntry(t, db, "2024-03-05", model.BudgetExpense, "rent", 900)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/budget/summary",
			map[string]string{"month": "2024-03"},
		)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.BudgetSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Income != 2500 || response.Expenses != 900 {
			t.Errorf("Unexpected summary: %+v", response)
		}
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/budget/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestBudgetHandler_Delete(t *testing.T) {
	t.Run("returns 400 for a malformed uuid", func(t *testing.T) {
		handler, _ := setupBudgetHandler(t)

		req := testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/budget/nope",
			map[string]string{"id": "nope"},
		)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

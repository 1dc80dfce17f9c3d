package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/service"
	"github.com/avitali/portfolio-dashboard/internal/validation"
)

// BudgetHandler handles household ledger HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// budgetEntryRequest is the creation payload. The date travels as a
// string so the handler controls the accepted format.
type budgetEntryRequest struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

// List handles GET requests for ledger entries, optionally bounded by
// from/to query parameters (YYYY-MM-DD).
//
// Endpoint: GET /api/budget?from=2024-01-01&to=2024-12-31
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	var start, end time.Time
	var err error

	if raw := r.URL.Query().Get("from"); raw != "" {
		if start, err = validation.ParseDate(raw); err != nil {
			respondServiceError(w, err)
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if end, err = validation.ParseDate(raw); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	entries, err := h.budgetService.List(start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.BudgetEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// Create handles POST requests adding a ledger entry.
//
// Endpoint: POST /api/budget
// Response: 201 Created with the stored entry including its id
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req budgetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if req.Date == "" {
		respondServiceError(w, apperrors.ErrInvalidDate)
		return
	}
	date, err := validation.ParseDate(req.Date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	entry, err := h.budgetService.Create(model.BudgetEntry{
		Date:     date,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Delete handles DELETE requests for a ledger entry.
//
// Endpoint: DELETE /api/budget/{id}
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.budgetService.Delete(chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Summary handles GET requests for the monthly aggregate. The month
// query parameter (YYYY-MM) defaults to the current month.
//
// Endpoint: GET /api/budget/summary?month=2024-03
func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	summary, err := h.budgetService.Summary(month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

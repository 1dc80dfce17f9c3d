package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/service"
)

// AllocationHandler handles allocation x-ray HTTP requests
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
	}
}

// refreshRequest names the ISIN whose composition should be scraped.
type refreshRequest struct {
	Isin string `json:"isin"`
}

// Xray handles GET requests for the value-weighted exposure report
// across all held assets.
//
// Endpoint: GET /api/allocation/xray
func (h *AllocationHandler) Xray(w http.ResponseWriter, r *http.Request) {
	report, err := h.allocationService.Xray()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Refresh handles POST requests that scrape JustETF for one ISIN and
// store the result under its mapped ticker.
//
// Endpoint: POST /api/allocation/refresh
func (h *AllocationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	allocation, err := h.allocationService.Refresh(r.Context(), req.Isin)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, allocation)
}

// Get handles GET requests for one ticker's stored composition.
//
// Endpoint: GET /api/allocation/{ticker}
func (h *AllocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	allocation, err := h.allocationService.Get(chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, allocation)
}

// Delete handles DELETE requests for one ticker's stored composition.
//
// Endpoint: DELETE /api/allocation/{ticker}
func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.allocationService.Delete(chi.URLParam(r, "ticker")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

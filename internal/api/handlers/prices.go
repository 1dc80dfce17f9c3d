package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/service"
)

// PriceHandler handles price history and synchronization HTTP requests
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// History handles GET requests for one ticker's stored price series.
//
// Endpoint: GET /api/prices/{ticker}
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	points, err := h.priceService.History(chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if points == nil {
		points = []model.PricePoint{}
	}
	respondJSON(w, http.StatusOK, points)
}

// Sync triggers an incremental price download for every mapped ticker.
//
// Endpoint: POST /api/prices/sync
// Response: 200 OK with the number of rows added and tickers touched
func (h *PriceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.SyncAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if result.Tickers == nil {
		result.Tickers = []string{}
	}
	respondJSON(w, http.StatusOK, result)
}

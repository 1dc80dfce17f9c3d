package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/service"
)

// DashboardHandler handles portfolio overview HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Summary handles GET requests for the current holdings snapshot.
//
// Endpoint: GET /api/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if summary.Holdings == nil {
		summary.Holdings = []model.HoldingView{}
	}
	respondJSON(w, http.StatusOK, summary)
}

// History handles GET requests for the daily value-versus-cost series.
//
// Endpoint: GET /api/dashboard/history
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.dashboardService.History()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if history == nil {
		history = []model.HistoryPoint{}
	}
	respondJSON(w, http.StatusOK, history)
}

// Liquidity handles GET requests for the current cash figure.
//
// Endpoint: GET /api/dashboard/liquidity
func (h *DashboardHandler) Liquidity(w http.ResponseWriter, r *http.Request) {
	liquidity, err := h.dashboardService.Liquidity()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, liquidity)
}

// Asset handles GET requests for one asset's drill-down view.
//
// Endpoint: GET /api/asset/{ticker}
func (h *DashboardHandler) Asset(w http.ResponseWriter, r *http.Request) {
	detail, err := h.dashboardService.AssetDetail(chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

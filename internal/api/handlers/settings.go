package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avitali/portfolio-dashboard/internal/service"
)

// SettingsHandler handles settings HTTP requests, currently the manual
// liquidity override.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// liquidityRequest is the manual override payload.
type liquidityRequest struct {
	Amount float64 `json:"amount"`
}

// liquidityState is the override as stored: the amount plus whether it
// is currently in effect.
type liquidityState struct {
	Amount float64 `json:"amount"`
	Active bool    `json:"active"`
}

// GetLiquidity handles GET requests for the raw manual override state.
//
// Endpoint: GET /api/settings/liquidity
func (h *SettingsHandler) GetLiquidity(w http.ResponseWriter, r *http.Request) {
	amount, active, err := h.settingsService.ManualLiquidity()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, liquidityState{Amount: amount, Active: active})
}

// SetLiquidity handles PUT requests storing the manual liquidity
// override.
//
// Endpoint: PUT /api/settings/liquidity
func (h *SettingsHandler) SetLiquidity(w http.ResponseWriter, r *http.Request) {
	var req liquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := h.settingsService.SetManualLiquidity(req.Amount); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

// ClearLiquidity handles DELETE requests removing the override and
// returning the dashboard to automatic calculation.
//
// Endpoint: DELETE /api/settings/liquidity
func (h *SettingsHandler) ClearLiquidity(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.ClearManualLiquidity(); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

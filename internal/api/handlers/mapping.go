package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/service"
)

// MappingHandler handles ISIN-to-ticker mapping HTTP requests
type MappingHandler struct {
	mappingService *service.MappingService
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(mappingService *service.MappingService) *MappingHandler {
	return &MappingHandler{
		mappingService: mappingService,
	}
}

// List handles GET requests for the full mapping table.
//
// Endpoint: GET /api/mapping
func (h *MappingHandler) List(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappingService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if mappings == nil {
		mappings = []model.Mapping{}
	}
	respondJSON(w, http.StatusOK, mappings)
}

// Get handles GET requests for one ISIN's mapping.
//
// Endpoint: GET /api/mapping/{isin}
func (h *MappingHandler) Get(w http.ResponseWriter, r *http.Request) {
	mapping, err := h.mappingService.Get(chi.URLParam(r, "isin"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapping)
}

// Replace handles PUT requests that swap the whole mapping table. The
// body is the complete desired mapping; omitted rows are deleted.
//
// Endpoint: PUT /api/mapping
func (h *MappingHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var mappings []model.Mapping
	if err := json.NewDecoder(r.Body).Decode(&mappings); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := h.mappingService.ReplaceAll(mappings); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mappings)
}

// Upsert handles POST requests that add or update a single mapping row.
//
// Endpoint: POST /api/mapping
func (h *MappingHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var mapping model.Mapping
	if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := h.mappingService.Upsert(mapping); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapping)
}

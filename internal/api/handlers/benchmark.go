package handlers

import (
	"net/http"

	"github.com/avitali/portfolio-dashboard/internal/service"
)

// BenchmarkHandler handles benchmark simulation HTTP requests
type BenchmarkHandler struct {
	benchmarkService *service.BenchmarkService
}

// NewBenchmarkHandler creates a new BenchmarkHandler
func NewBenchmarkHandler(benchmarkService *service.BenchmarkService) *BenchmarkHandler {
	return &BenchmarkHandler{
		benchmarkService: benchmarkService,
	}
}

// Simulate runs the what-if comparison of the real portfolio against a
// benchmark. The ticker query parameter selects the benchmark; when
// omitted the configured default is used.
//
// Endpoint: GET /api/benchmark/simulate?ticker=SWDA.MI
// Response: 200 OK with both valuation legs, drawdowns, alpha and the
// trade log
func (h *BenchmarkHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	result, err := h.benchmarkService.Simulate(r.Context(), r.URL.Query().Get("ticker"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

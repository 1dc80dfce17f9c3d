package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avitali/portfolio-dashboard/internal/service"
)

// maxImportSize caps CSV uploads at 8 MiB; a decade of DEGIRO history
// is well under 1 MiB.
const maxImportSize = 8 << 20

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// List handles GET requests for the transaction ledger with mapping
// info, newest first.
//
// Endpoint: GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// Import handles a DEGIRO CSV upload. Accepts either a multipart form
// with a "file" field or a raw CSV body.
//
// Endpoint: POST /api/transactions/import
// Response: 200 OK with imported/skipped counts
func (h *TransactionHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file := r.Body
	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		file = f
	}

	result, err := h.transactionService.ImportCSV(file)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE requests for a single transaction.
//
// Endpoint: DELETE /api/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.transactionService.Delete(chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Unmapped handles GET requests for ISINs lacking a ticker mapping.
//
// Endpoint: GET /api/transactions/unmapped
func (h *TransactionHandler) Unmapped(w http.ResponseWriter, r *http.Request) {
	isins, err := h.transactionService.UnmappedIsins()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if isins == nil {
		isins = []string{}
	}
	respondJSON(w, http.StatusOK, isins)
}

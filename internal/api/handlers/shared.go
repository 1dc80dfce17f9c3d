package handlers

import (
	"errors"
	"net/http"

	"github.com/avitali/portfolio-dashboard/internal/api/response"
	"github.com/avitali/portfolio-dashboard/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.RespondJSON(w, status, data)
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	apperrors.ErrTransactionNotFound,
	apperrors.ErrMappingNotFound,
	apperrors.ErrAssetNotFound,
	apperrors.ErrBudgetEntryNotFound,
	apperrors.ErrSettingNotFound,
	apperrors.ErrAllocationNotFound,
}

// badRequestErrors map to 400.
var badRequestErrors = []error{
	apperrors.ErrInvalidDateRange,
	apperrors.ErrInvalidUUID,
	apperrors.ErrEmptyID,
	apperrors.ErrNegativeAmount,
	apperrors.ErrDuplicateEntry,
	apperrors.ErrInvalidTicker,
	apperrors.ErrInvalidIsin,
	apperrors.ErrInvalidDate,
	apperrors.ErrInvalidType,
	apperrors.ErrInvalidCategory,
	apperrors.ErrInvalidCSVHeaders,
	apperrors.ErrNoTransactions,
}

// upstreamErrors map to 502: the request was fine but a remote data
// source was not.
var upstreamErrors = []error{
	apperrors.ErrFetchFailed,
	apperrors.ErrBenchmarkDataUnavailable,
}

// respondServiceError translates a service error into the matching
// HTTP status with a structured body.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case matchesAny(err, notFoundErrors):
		status = http.StatusNotFound
	case matchesAny(err, badRequestErrors):
		status = http.StatusBadRequest
	case matchesAny(err, upstreamErrors):
		status = http.StatusBadGateway
	}
	response.RespondError(w, status, err.Error(), nil)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

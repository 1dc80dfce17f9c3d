package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrMappingNotFound indicates that an ISIN has no ticker mapping row.
	ErrMappingNotFound = errors.New("mapping not found")

	// ErrAssetNotFound indicates that no transactions reference the given ticker.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrBudgetEntryNotFound indicates that a budget entry with the given ID does not exist.
	ErrBudgetEntryNotFound = errors.New("budget entry not found")

	// ErrSettingNotFound indicates that a settings key has no stored value.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrAllocationNotFound indicates that no allocation data has been fetched for a ticker.
	ErrAllocationNotFound = errors.New("allocation data not found")
)

// Simulation errors cover the valuation/benchmark engine. The benchmark
// leg is all-or-nothing: without benchmark or FX history the simulation
// is meaningless and must abort, while a held ticker with no price data
// merely contributes zero market value.
var (
	// ErrBenchmarkDataUnavailable indicates the benchmark ticker has no
	// price history in the requested range.
	ErrBenchmarkDataUnavailable = errors.New("no benchmark data available in range")

	// ErrFetchFailed indicates a remote price or FX series fetch failed.
	ErrFetchFailed = errors.New("remote series fetch failed")

	// ErrNoTransactions indicates a simulation was requested on an empty
	// transaction store.
	ErrNoTransactions = errors.New("no transactions to simulate")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Validation errors for required fields
	ErrInvalidTicker   = errors.New("ticker is required")
	ErrInvalidIsin     = errors.New("isin is required")
	ErrInvalidDate     = errors.New("date parameter is required")
	ErrInvalidType     = errors.New("budget type must be income or expense")
	ErrInvalidCategory = errors.New("category is required")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveMapping      = errors.New("failed to retrieve mapping")
	ErrFailedToRetrievePrices       = errors.New("failed to retrieve prices")
	ErrFailedToRetrieveBudget       = errors.New("failed to retrieve budget entries")
	ErrFailedToRetrieveSettings     = errors.New("failed to retrieve settings")
	ErrFailedToRetrieveAllocation   = errors.New("failed to retrieve allocation data")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToSyncPrices           = errors.New("failed to sync prices")
	ErrFailedToRunSimulation        = errors.New("failed to run benchmark simulation")
	ErrInvalidCSVHeaders            = errors.New("invalid CSV headers")
)

package service

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/degiro"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
)

// TransactionService handles transaction-related business logic: CSV
// imports with deduplication, listing and deletion.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	parser          *degiro.Parser
	log             zerolog.Logger
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(transactionRepo *repository.TransactionRepository, parser *degiro.Parser, log zerolog.Logger) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		parser:          parser,
		log:             log.With().Str("component", "transactions").Logger(),
	}
}

// ImportCSV parses a DEGIRO export and appends its rows to the ledger.
// Rows without an ISIN (cash movements, currency conversions) are
// dropped; rows whose content hash is already stored count as skipped.
// The operation is idempotent: importing the same file twice imports
// zero rows the second time.
func (s *TransactionService) ImportCSV(file io.Reader) (model.ImportResult, error) {
	parsed, err := s.parser.Parse(file)
	if err != nil {
		return model.ImportResult{}, err
	}

	withIsin := make([]model.Transaction, 0, len(parsed))
	for _, t := range parsed {
		if t.Isin == "" {
			continue
		}
		withIsin = append(withIsin, t)
	}

	inserted, skipped, err := s.transactionRepo.InsertIgnoreDuplicates(withIsin)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToImportTransactions, err)
	}

	s.log.Info().Int("imported", inserted).Int("skipped", skipped).
		Int("without_isin", len(parsed)-len(withIsin)).
		Msg("csv import complete")

	return model.ImportResult{Imported: inserted, Skipped: skipped}, nil
}

// List retrieves all transactions with their mapping info, newest
// first.
func (s *TransactionService) List() ([]model.TransactionResponse, error) {
	transactions, err := s.transactionRepo.ListWithMapping()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return transactions, nil
}

// Delete removes a transaction by id.
func (s *TransactionService) Delete(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	err := s.transactionRepo.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrTransactionNotFound
	}
	return err
}

// UnmappedIsins lists ISINs that appear in transactions but have no
// ticker mapping. These instruments are excluded from every valuation
// until mapped, so the list is surfaced prominently.
func (s *TransactionService) UnmappedIsins() ([]string, error) {
	return s.transactionRepo.UnmappedIsins()
}

package repository

import (
	"database/sql"
	"fmt"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// MappingRepository provides data access methods for the
// instrument_mapping table: the ISIN to Yahoo ticker dictionary.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a new MappingRepository with the provided database connection.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// GetAll retrieves all mappings sorted by ISIN.
func (r *MappingRepository) GetAll() ([]model.Mapping, error) {
	rows, err := r.db.Query(`SELECT isin, ticker, category FROM instrument_mapping ORDER BY isin ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument_mapping table: %w", err)
	}
	defer rows.Close()

	var mappings []model.Mapping
	for rows.Next() {
		var m model.Mapping
		if err := rows.Scan(&m.Isin, &m.Ticker, &m.Category); err != nil {
			return nil, fmt.Errorf("failed to scan instrument_mapping table results: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument_mapping table: %w", err)
	}

	return mappings, nil
}

// Get retrieves one mapping by ISIN.
//
// Returns sql.ErrNoRows when the ISIN has no mapping.
func (r *MappingRepository) Get(isin string) (model.Mapping, error) {
	var m model.Mapping
	err := r.db.QueryRow(
		`SELECT isin, ticker, category FROM instrument_mapping WHERE isin = ?`, isin,
	).Scan(&m.Isin, &m.Ticker, &m.Category)
	if err != nil {
		return model.Mapping{}, err
	}
	return m, nil
}

// ReplaceAll swaps the whole mapping table for the given set in one
// transaction. The mapping is edited as a document, not row by row, so
// a replace keeps the table exactly in step with what the user saved,
// deletions included.
func (r *MappingRepository) ReplaceAll(mappings []model.Mapping) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM instrument_mapping`); err != nil {
		return fmt.Errorf("failed to clear instrument_mapping table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO instrument_mapping (isin, ticker, category) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.Exec(m.Isin, m.Ticker, m.Category); err != nil {
			return fmt.Errorf("failed to insert mapping for %s: %w", m.Isin, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mapping replace: %w", err)
	}
	return nil
}

// Upsert inserts or updates a single mapping.
func (r *MappingRepository) Upsert(m model.Mapping) error {
	_, err := r.db.Exec(`
		INSERT INTO instrument_mapping (isin, ticker, category)
		VALUES (?, ?, ?)
		ON CONFLICT(isin) DO UPDATE SET ticker = excluded.ticker, category = excluded.category
	`, m.Isin, m.Ticker, m.Category)
	if err != nil {
		return fmt.Errorf("failed to upsert mapping for %s: %w", m.Isin, err)
	}
	return nil
}

// Tickers lists the distinct mapped tickers, sorted. This is the set
// the price sync iterates over.
func (r *MappingRepository) Tickers() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT ticker FROM instrument_mapping WHERE ticker != '' ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mapped tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapped tickers: %w", err)
	}

	return tickers, nil
}

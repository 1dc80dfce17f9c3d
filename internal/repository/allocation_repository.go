package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// AllocationRepository provides data access methods for the
// asset_allocation table. Geography and sector weights are stored as
// JSON documents per ticker; the shape is irregular per asset and only
// ever read back whole, so columns would buy nothing.
type AllocationRepository struct {
	db *sql.DB
}

// NewAllocationRepository creates a new AllocationRepository with the provided database connection.
func NewAllocationRepository(db *sql.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// GetAll retrieves every stored allocation sorted by ticker.
func (r *AllocationRepository) GetAll() ([]model.Allocation, error) {
	rows, err := r.db.Query(`SELECT ticker, geography_json, sector_json FROM asset_allocation ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_allocation table: %w", err)
	}
	defer rows.Close()

	var allocations []model.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_allocation table: %w", err)
	}

	return allocations, nil
}

// Get retrieves the stored allocation for one ticker.
//
// Returns sql.ErrNoRows when nothing is stored for the ticker.
func (r *AllocationRepository) Get(ticker string) (model.Allocation, error) {
	row := r.db.QueryRow(`SELECT ticker, geography_json, sector_json FROM asset_allocation WHERE ticker = ?`, ticker)
	return scanAllocation(row.Scan)
}

// Upsert stores or refreshes the allocation for a ticker.
func (r *AllocationRepository) Upsert(a model.Allocation) error {
	geo, err := json.Marshal(orEmpty(a.Geography))
	if err != nil {
		return fmt.Errorf("failed to encode geography: %w", err)
	}
	sec, err := json.Marshal(orEmpty(a.Sectors))
	if err != nil {
		return fmt.Errorf("failed to encode sectors: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO asset_allocation (ticker, geography_json, sector_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			geography_json = excluded.geography_json,
			sector_json = excluded.sector_json,
			updated_at = excluded.updated_at
	`, a.Ticker, string(geo), string(sec), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert allocation for %s: %w", a.Ticker, err)
	}
	return nil
}

// Delete removes the stored allocation for a ticker.
//
// Returns sql.ErrNoRows when nothing was stored.
func (r *AllocationRepository) Delete(ticker string) error {
	res, err := r.db.Exec(`DELETE FROM asset_allocation WHERE ticker = ?`, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete allocation for %s: %w", ticker, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAllocation(scan func(...any) error) (model.Allocation, error) {
	var a model.Allocation
	var geoRaw, secRaw string
	if err := scan(&a.Ticker, &geoRaw, &secRaw); err != nil {
		if err == sql.ErrNoRows {
			return model.Allocation{}, err
		}
		return model.Allocation{}, fmt.Errorf("failed to scan asset_allocation table results: %w", err)
	}
	if err := json.Unmarshal([]byte(geoRaw), &a.Geography); err != nil {
		return model.Allocation{}, fmt.Errorf("failed to decode geography for %s: %w", a.Ticker, err)
	}
	if err := json.Unmarshal([]byte(secRaw), &a.Sectors); err != nil {
		return model.Allocation{}, fmt.Errorf("failed to decode sectors for %s: %w", a.Ticker, err)
	}
	return a, nil
}

func orEmpty(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// PriceRepository provides data access methods for the price table:
// sparse daily closes keyed by (ticker, date).
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetAll retrieves every stored price point sorted by ticker and date.
func (r *PriceRepository) GetAll() ([]model.PricePoint, error) {
	return r.query(`SELECT ticker, date, close_price FROM price ORDER BY ticker ASC, date ASC`)
}

// GetByTicker retrieves the price history of one ticker sorted by date.
func (r *PriceRepository) GetByTicker(ticker string) ([]model.PricePoint, error) {
	return r.query(`SELECT ticker, date, close_price FROM price WHERE ticker = ? ORDER BY date ASC`, ticker)
}

// LastDate returns the most recent stored date for a ticker, or false
// when no prices are stored yet. The price sync resumes one day after
// this date instead of re-downloading full history.
func (r *PriceRepository) LastDate(ticker string) (time.Time, bool, error) {
	var dateStr sql.NullString
	err := r.db.QueryRow(`SELECT MAX(date) FROM price WHERE ticker = ?`, ticker).Scan(&dateStr)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query last price date: %w", err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}
	d, err := ParseTime(dateStr.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return d, true, nil
}

// InsertIgnoreDuplicates stores price points, skipping (ticker, date)
// pairs already present.
//
// Returns the number of rows actually inserted.
func (r *PriceRepository) InsertIgnoreDuplicates(points []model.PricePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price (ticker, date, close_price)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range points {
		res, err := stmt.Exec(p.Ticker, p.Date.Format("2006-01-02"), p.ClosePrice)
		if err != nil {
			return 0, fmt.Errorf("failed to insert price %s %s: %w", p.Ticker, p.Date.Format("2006-01-02"), err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit price batch: %w", err)
	}

	return inserted, nil
}

func (r *PriceRepository) query(q string, args ...any) ([]model.PricePoint, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		var dateStr string
		if err := rows.Scan(&p.Ticker, &dateStr, &p.ClosePrice); err != nil {
			return nil, fmt.Errorf("failed to scan price table results: %w", err)
		}
		p.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		points = append(points, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price table: %w", err)
	}

	return points, nil
}

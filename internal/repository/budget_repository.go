package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// BudgetRepository provides data access methods for the budget_entry
// table: the household income and expense ledger.
type BudgetRepository struct {
	db *sql.DB
}

// NewBudgetRepository creates a new BudgetRepository with the provided database connection.
func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// List retrieves entries in [start, end], newest first. A zero start or
// end leaves that bound open.
func (r *BudgetRepository) List(start, end time.Time) ([]model.BudgetEntry, error) {
	query := `SELECT id, date, type, category, amount, note FROM budget_entry WHERE 1=1`
	var args []any
	if !start.IsZero() {
		query += ` AND date >= ?`
		args = append(args, start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		query += ` AND date <= ?`
		args = append(args, end.Format("2006-01-02"))
	}
	query += ` ORDER BY date DESC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget_entry table: %w", err)
	}
	defer rows.Close()

	var entries []model.BudgetEntry
	for rows.Next() {
		var e model.BudgetEntry
		var dateStr string
		var note sql.NullString
		if err := rows.Scan(&e.ID, &dateStr, &e.Type, &e.Category, &e.Amount, &note); err != nil {
			return nil, fmt.Errorf("failed to scan budget_entry table results: %w", err)
		}
		e.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		e.Note = note.String
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget_entry table: %w", err)
	}

	return entries, nil
}

// Create stores a new ledger entry.
func (r *BudgetRepository) Create(e model.BudgetEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO budget_entry (id, date, type, category, amount, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Date.Format("2006-01-02"), e.Type, e.Category, e.Amount, e.Note)
	if err != nil {
		return fmt.Errorf("failed to insert budget entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id.
//
// Returns sql.ErrNoRows when the id does not exist.
func (r *BudgetRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM budget_entry WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget entry: %w", err)
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

package repository

import (
	"database/sql"
	"fmt"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// TransactionRepository provides data access methods for the txn table.
// It handles retrieving imported brokerage transactions and appending
// new imports with content-hash deduplication.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetAll retrieves every transaction, sorted by date ascending. This is
// the snapshot the valuation engine scans, so ordering is stable:
// date first, then id as a tie-breaker.
func (r *TransactionRepository) GetAll() ([]model.Transaction, error) {
	query := `
		SELECT id, date, product, isin, quantity, local_value, fees, currency, created_at
		FROM txn
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query txn table: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating txn table: %w", err)
	}

	return transactions, nil
}

// ListWithMapping retrieves all transactions joined against the
// instrument mapping, newest first, for display. Unmapped rows come
// back with an empty ticker and category.
func (r *TransactionRepository) ListWithMapping() ([]model.TransactionResponse, error) {
	query := `
		SELECT t.id, t.date, t.product, t.isin, t.quantity, t.local_value, t.fees, t.currency,
		       COALESCE(m.ticker, ''), COALESCE(m.category, '')
		FROM txn t
		LEFT JOIN instrument_mapping m ON m.isin = t.isin
		ORDER BY t.date DESC, t.id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query txn table: %w", err)
	}
	defer rows.Close()

	var out []model.TransactionResponse
	for rows.Next() {
		var tr model.TransactionResponse
		var dateStr string
		err := rows.Scan(
			&tr.ID,
			&dateStr,
			&tr.Product,
			&tr.Isin,
			&tr.Quantity,
			&tr.LocalValue,
			&tr.Fees,
			&tr.Currency,
			&tr.Ticker,
			&tr.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan txn table results: %w", err)
		}
		tr.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		out = append(out, tr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating txn table: %w", err)
	}

	return out, nil
}

// InsertIgnoreDuplicates appends transactions, silently skipping ids
// already present. This is what makes CSV re-imports idempotent: the id
// is a content hash, so a row seen before conflicts and is dropped.
//
// Returns:
//   - int: number of rows actually inserted
//   - int: number of rows skipped as duplicates
//   - error: nil on success; on error the whole batch is rolled back
func (r *TransactionRepository) InsertIgnoreDuplicates(transactions []model.Transaction) (int, int, error) {
	if len(transactions) == 0 {
		return 0, 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO txn (id, date, product, isin, quantity, local_value, fees, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range transactions {
		res, err := stmt.Exec(
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Product,
			t.Isin,
			t.Quantity,
			t.LocalValue,
			t.Fees,
			t.Currency,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction batch: %w", err)
	}

	return inserted, len(transactions) - inserted, nil
}

// Delete removes a transaction by id.
//
// Returns sql.ErrNoRows when the id does not exist.
func (r *TransactionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM txn WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

// UnmappedIsins lists distinct ISINs present in transactions but absent
// from the instrument mapping, sorted.
func (r *TransactionRepository) UnmappedIsins() ([]string, error) {
	query := `
		SELECT DISTINCT t.isin
		FROM txn t
		LEFT JOIN instrument_mapping m ON m.isin = t.isin
		WHERE m.isin IS NULL AND t.isin != ''
		ORDER BY t.isin ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmapped isins: %w", err)
	}
	defer rows.Close()

	var isins []string
	for rows.Next() {
		var isin string
		if err := rows.Scan(&isin); err != nil {
			return nil, fmt.Errorf("failed to scan unmapped isin: %w", err)
		}
		isins = append(isins, isin)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unmapped isins: %w", err)
	}

	return isins, nil
}

// scanTransaction reads one txn row. Shared by the queries that select
// the full column set in table order.
func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var dateStr string
	var createdAt sql.NullString

	err := rows.Scan(
		&t.ID,
		&dateStr,
		&t.Product,
		&t.Isin,
		&t.Quantity,
		&t.LocalValue,
		&t.Fees,
		&t.Currency,
		&createdAt,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan txn table results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if createdAt.Valid {
		if parsed, err := ParseTime(createdAt.String); err == nil {
			t.CreatedAt = parsed
		}
	}

	return t, nil
}

// Package degiro parses DEGIRO transaction export CSVs into
// transactions ready for import. The exports use Italian column
// headers, day-first dates and decimal commas.
package degiro

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
)

// Column headers as DEGIRO writes them.
const (
	colDate    = "Data"
	colTime    = "Ora"
	colProduct = "Prodotto"
	colIsin    = "ISIN"
	colQty     = "Quantità"
	colValue   = "Valore"
	colTotal   = "Totale"
	colFees    = "Costi di transazione"
	colOrderID = "ID Ordine"
)

// dateLayout matches DEGIRO's day-first export format, e.g. "15-03-2024".
const dateLayout = "02-01-2006"

// requiredColumns are the headers an export must carry to be parseable.
// The rest degrade gracefully when absent.
var requiredColumns = []string{colDate, colTime, colIsin, colQty, colValue}

// Parser converts DEGIRO CSV exports into transactions.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a Parser logging coercion warnings through log.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log.With().Str("component", "degiro").Logger()}
}

// Parse reads a DEGIRO export and returns one transaction per row.
//
// Malformed numeric cells coerce to zero with a logged warning rather
// than failing the file: a single odd fee cell must not block an import
// of hundreds of rows. Rows without a parseable date are skipped, also
// with a warning. Missing required headers fail the whole file.
//
// Returns:
//   - []model.Transaction: parsed transactions, in file order
//   - error: nil, or ErrInvalidCSVHeaders / a CSV read error
func (p *Parser) Parse(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidCSVHeaders)
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", apperrors.ErrInvalidCSVHeaders, name)
		}
	}

	var txs []model.Transaction
	for rowNum := 0; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", rowNum+1, err)
		}

		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := time.Parse(dateLayout, cell(colDate))
		if err != nil {
			p.log.Warn().Int("row", rowNum+1).Str("value", cell(colDate)).
				Msg("skipping row with unparseable date")
			continue
		}

		qty := p.number(rowNum, colQty, cell(colQty))
		value := p.number(rowNum, colValue, cell(colValue))
		total := p.number(rowNum, colTotal, cell(colTotal))
		fees := p.number(rowNum, colFees, cell(colFees))
		if fees < 0 {
			fees = -fees
		}

		// "Totale" includes fees and is the real cash movement; older
		// exports leave it empty, where "Valore" is the best available.
		localValue := total
		if localValue == 0 {
			localValue = value
		}

		txs = append(txs, model.Transaction{
			ID:         rowID(rowNum, date, cell(colTime), cell(colIsin), cell(colOrderID), qty, value),
			Date:       date.UTC(),
			Product:    cell(colProduct),
			Isin:       cell(colIsin),
			Quantity:   qty,
			LocalValue: localValue,
			Fees:       fees,
			Currency:   "EUR",
		})
	}

	return txs, nil
}

// number coerces a decimal-comma cell to a float. Empty and malformed
// cells become zero; malformed ones are logged so a corrupted export is
// visible without blocking the import.
func (p *Parser) number(row int, column, raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		p.log.Warn().Int("row", row+1).Str("column", column).Str("value", raw).
			Msg("malformed numeric cell coerced to zero")
		return 0
	}
	return v
}

// rowID derives a stable transaction id from the row's identifying
// fields plus its position in the file. The position disambiguates
// legitimately identical rows, such as one order filled in two equal
// partial executions in the same second.
func rowID(row int, date time.Time, ora, isin, orderID string, qty, value float64) string {
	raw := fmt.Sprintf("%d%s%s%s%s%s%s",
		row,
		date.Format("2006-01-02"),
		ora, isin, orderID,
		strconv.FormatFloat(qty, 'g', -1, 64),
		strconv.FormatFloat(value, 'g', -1, 64),
	)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

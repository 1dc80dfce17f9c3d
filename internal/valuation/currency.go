package valuation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
)

// exchangeCurrency maps a Yahoo exchange suffix to the currency the
// exchange quotes in. Suffixless symbols and unrecognized suffixes are
// assumed to already quote in the reporting currency.
var exchangeCurrency = map[string]string{
	".TO": "CAD",
	".V":  "CAD",
	".L":  "GBP",
	".SW": "CHF",
	".CO": "DKK",
	".ST": "SEK",
	".OL": "NOK",
	".MI": "EUR",
	".DE": "EUR",
	".F":  "EUR",
	".PA": "EUR",
	".AS": "EUR",
	".BR": "EUR",
	".MC": "EUR",
	".LS": "EUR",
	".IR": "EUR",
	".VI": "EUR",
	".HE": "EUR",
}

// CurrencyFor infers the quote currency of a ticker from its exchange
// suffix. reporting is returned for suffixless or unknown symbols.
//
// Parameters:
//   - ticker: Yahoo symbol, e.g. "SWDA.MI" or "VT"
//   - reporting: the portfolio reporting currency, e.g. "EUR"
//
// Returns:
//   - string: ISO currency code the ticker quotes in
func CurrencyFor(ticker, reporting string) string {
	i := strings.LastIndex(ticker, ".")
	if i < 0 {
		return reporting
	}
	if cur, ok := exchangeCurrency[strings.ToUpper(ticker[i:])]; ok {
		return cur
	}
	return reporting
}

// Rates answers as-of FX lookups for converting a quote currency into
// the reporting currency. A rate r means 1 unit of reporting currency
// buys r units of the quote currency, matching Yahoo "EURUSD=X" style
// pairs, so reporting = quote / r.
type Rates interface {
	AsOf(d time.Time) (float64, bool)
}

// identityRates is the no-conversion case: ticker already quotes in the
// reporting currency.
type identityRates struct{}

func (identityRates) AsOf(time.Time) (float64, bool) { return 1, true }

// seriesRates adapts a fetched FX series into Rates.
type seriesRates struct{ s *Series }

func (r seriesRates) AsOf(d time.Time) (float64, bool) { return r.s.AsOf(d) }

// LoadRates resolves the FX series needed to express ticker in the
// reporting currency over [start, end]. When the ticker already quotes
// in the reporting currency no fetch happens and identity rates are
// returned. A failed or empty FX fetch is fatal: silently valuing a
// foreign benchmark unconverted would corrupt every downstream number.
func LoadRates(ctx context.Context, fetcher SeriesFetcher, ticker, reporting string, start, end time.Time) (Rates, error) {
	quote := CurrencyFor(ticker, reporting)
	if quote == reporting {
		return identityRates{}, nil
	}

	pair := reporting + quote + "=X"
	points, err := fetcher.FetchDailyCloses(ctx, pair, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fx pair %s: %s", apperrors.ErrFetchFailed, pair, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: fx pair %s returned no data", apperrors.ErrFetchFailed, pair)
	}
	return seriesRates{NewSeries(points)}, nil
}

// Package yahoo fetches daily closing prices from the Yahoo Finance
// chart API. It serves instrument prices, benchmark series and FX pairs
// ("EURUSD=X") alike; everything upstream consumes the same daily-close
// shape.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

// FinanceClient provides methods for fetching financial data from the
// Yahoo Finance API. It wraps an HTTP client and handles the request
// headers Yahoo expects.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a new Yahoo Finance client with a sensible
// request timeout.
//
// Returns:
//   - *FinanceClient: A new client instance ready for use
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchDailyCloses fetches daily closing values for a symbol over
// [start, end], inclusive. Days Yahoo reports without a usable close
// (nulls, zeros) are dropped, so the result is a sparse series suitable
// for as-of lookups.
//
// Parameters:
//   - ctx: Request context; cancellation aborts the HTTP call
//   - symbol: Ticker or FX pair symbol (e.g. "SWDA.MI", "EURUSD=X")
//   - start: Beginning of date range (inclusive)
//   - end: End of date range (inclusive)
//
// Returns:
//   - []valuation.Point: One point per trading day with a valid close
//   - error: If the HTTP request fails, the API returns an error, or no results are found
func (c *FinanceClient) FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]valuation.Point, error) {
	// period2 is exclusive on Yahoo's side; push it past midnight so the
	// end day itself is included.
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		symbol,
		start.Unix(),
		end.AddDate(0, 0, 1).Unix(),
	)

	response, err := c.queryYahoo(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for symbol %s", symbol)
	}

	points := make([]valuation.Point, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] <= 0 {
			continue
		}
		points = append(points, valuation.Point{
			Date:  valuation.Day(time.Unix(ts, 0)),
			Value: closes[i],
		})
	}

	return points, nil
}

// queryYahoo is an internal helper that executes HTTP requests to the
// Yahoo Finance API: common logic for headers, response reading, JSON
// parsing and API error checking.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
//
// Parameters:
//   - ctx: Request context
//   - url: Fully-formed Yahoo Finance API URL
//
// Returns:
//   - Response: Parsed API response
//   - error: If the HTTP request fails, parsing fails, or the API returns an error
func (c *FinanceClient) queryYahoo(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}

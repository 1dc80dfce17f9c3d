// Package justetf scrapes ETF allocation breakdowns (geography and
// sector weights) from justetf.com profile pages. There is no public
// API, so parsing is deliberately tolerant: it extracts label/percent
// pairs from the profile's breakdown tables and ignores everything
// else.
package justetf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Breakdown is the allocation data scraped for one ISIN. Weights are
// percentages and usually sum close to 100, but small ETFs with an
// "Other" bucket may fall short.
type Breakdown struct {
	Geography map[string]float64
	Sectors   map[string]float64
}

// Client fetches allocation breakdowns. The HTTP implementation
// satisfies it in production; tests substitute canned breakdowns.
type Client interface {
	FetchAllocation(ctx context.Context, isin string) (Breakdown, error)
}

// HTTPClient scrapes justetf.com.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPClient creates a scraper against the public justetf.com site.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.justetf.com",
	}
}

// NewHTTPClientWithBase creates a scraper against a custom base URL.
// Used by tests to point at a local fixture server.
func NewHTTPClientWithBase(baseURL string) *HTTPClient {
	c := NewHTTPClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// breakdownRow matches one table row of a profile breakdown section:
// a label cell followed by a percentage cell.
var breakdownRow = regexp.MustCompile(`(?s)<td[^>]*>([^<>%]+?)</td>\s*<td[^>]*>\s*([\d]+[.,]?[\d]*)\s*%`)

// FetchAllocation downloads the profile page for an ISIN and extracts
// its geography and sector tables. An ETF without breakdown tables
// (e.g. a single-country bond ETF) yields empty maps, not an error.
func (c *HTTPClient) FetchAllocation(ctx context.Context, isin string) (Breakdown, error) {
	url := fmt.Sprintf("%s/en/etf-profile.html?isin=%s", c.baseURL, isin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Breakdown{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Breakdown{}, fmt.Errorf("fetching justetf profile for %s: %w", isin, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Breakdown{}, fmt.Errorf("justetf profile for %s: status %d", isin, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Breakdown{}, err
	}

	page := string(body)
	return Breakdown{
		Geography: parseSection(page, "Countries"),
		Sectors:   parseSection(page, "Sectors"),
	}, nil
}

// parseSection extracts label/percent rows from the breakdown table
// following a section heading. The section ends at the next heading or
// table close, whichever comes first.
func parseSection(page, heading string) map[string]float64 {
	start := strings.Index(page, ">"+heading+"<")
	if start < 0 {
		return map[string]float64{}
	}
	section := page[start:]
	if end := strings.Index(section, "</table>"); end > 0 {
		section = section[:end]
	}

	out := map[string]float64{}
	for _, m := range breakdownRow.FindAllStringSubmatch(section, -1) {
		label := strings.TrimSpace(m[1])
		pct, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
		if err != nil || label == "" {
			continue
		}
		out[label] = pct
	}
	return out
}

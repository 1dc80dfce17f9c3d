package valuation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/avitali/portfolio-dashboard/internal/model"
)

// Fingerprint derives a stable content hash of everything a simulation
// depends on: the benchmark ticker, the transactions, the mappings and
// the stored prices. Two snapshots with the same fingerprint produce
// the same Result, so the fingerprint doubles as a cache key and makes
// re-simulation on unchanged data free.
func Fingerprint(benchmark string, txs []model.Transaction, mappings []model.Mapping, prices []model.PricePoint) string {
	h := sha256.New()
	fmt.Fprintf(h, "benchmark|%s\n", benchmark)

	writeSorted(h, txs, func(t model.Transaction) string {
		return fmt.Sprintf("tx|%s|%s|%s|%.10f|%.10f|%.10f|%s",
			t.ID, t.Date.Format("2006-01-02"), t.Isin, t.Quantity, t.LocalValue, t.Fees, t.Currency)
	})
	writeSorted(h, mappings, func(m model.Mapping) string {
		return fmt.Sprintf("map|%s|%s|%s", m.Isin, m.Ticker, m.Category)
	})
	writeSorted(h, prices, func(p model.PricePoint) string {
		return fmt.Sprintf("px|%s|%s|%.10f", p.Ticker, p.Date.Format("2006-01-02"), p.ClosePrice)
	})

	return hex.EncodeToString(h.Sum(nil))
}

// writeSorted hashes row encodings in sorted order so the fingerprint
// does not depend on query or slice ordering.
func writeSorted[T any](w io.Writer, rows []T, encode func(T) string) {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = encode(r)
	}
	sort.Strings(lines)
	for _, l := range lines {
		io.WriteString(w, l)
		io.WriteString(w, "\n")
	}
}

// Cache holds simulation results keyed by snapshot fingerprint. It is
// safe for concurrent use and unbounded: entries are invalidated by the
// data changing, not by time, and a handful of benchmark tickers keeps
// it tiny in practice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Result
}

// NewCache returns an empty result cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// Get returns the cached result for a fingerprint, if present. The
// returned pointer is shared; callers must not mutate it.
func (c *Cache) Get(fingerprint string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[fingerprint]
	return res, ok
}

// Put stores a result under its fingerprint.
func (c *Cache) Put(fingerprint string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = res
}

// Len reports the number of cached results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

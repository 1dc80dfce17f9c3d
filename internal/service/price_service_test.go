package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

// TestPriceService_SyncAll tests the incremental Yahoo sync.
//
// WHY: the sync runs unattended on a schedule; it must resume instead of
// re-downloading full history, and a single broken ticker must never
// stop the others from updating.
func TestPriceService_SyncAll(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")

	t.Run("downloads full history for a ticker never synced", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher().
			WithFlatSeries("SWDA.MI", "2024-01-01", "2024-01-05", 85.0)
		svc := testutil.NewTestPriceService(t, db, fetcher)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")

		// Execute
		result, err := svc.SyncAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("SyncAll() returned unexpected error: %v", err)
		}
		if result.Added != 5 {
			t.Errorf("Expected 5 rows added, got %d", result.Added)
		}
		if len(result.Tickers) != 1 || result.Tickers[0] != "SWDA.MI" {
			t.Errorf("Expected tickers [SWDA.MI], got %v", result.Tickers)
		}

		points, err := svc.History("SWDA.MI")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(points) != 5 {
			t.Errorf("Expected 5 stored points, got %d", len(points))
		}
	})

	t.Run("overlapping fetch only adds dates not yet stored", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher().
			WithFlatSeries("SWDA.MI", "2024-01-01", "2024-01-05", 85.0)
		svc := testutil.NewTestPriceService(t, db, fetcher)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-01-01", 84.5)
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-01-02", 84.8)

		// Execute
		result, err := svc.SyncAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("SyncAll() returned unexpected error: %v", err)
		}
		if result.Added != 3 {
			t.Errorf("Expected 3 new rows, got %d", result.Added)
		}
	})

	t.Run("ticker already current through yesterday is not fetched", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher()
		svc := testutil.NewTestPriceService(t, db, fetcher)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", yesterday, 85.0)

		// Execute
		result, err := svc.SyncAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("SyncAll() returned unexpected error: %v", err)
		}
		if result.Added != 0 {
			t.Errorf("Expected 0 rows added, got %d", result.Added)
		}
		if len(fetcher.Calls) != 0 {
			t.Errorf("Expected no fetch calls, got %v", fetcher.Calls)
		}
	})

	t.Run("a failing ticker is skipped without failing the sync", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher().
			WithFlatSeries("SWDA.MI", weekAgo, yesterday, 85.0)
		fetcher.Errors["DEAD.MI"] = errors.New("404 from upstream")
		svc := testutil.NewTestPriceService(t, db, fetcher)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreateMapping(t, db, "IE00BK5BQT80", "DEAD.MI", "equity")

		// Execute
		result, err := svc.SyncAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("SyncAll() returned unexpected error: %v", err)
		}
		if len(result.Tickers) != 1 || result.Tickers[0] != "SWDA.MI" {
			t.Errorf("Expected only SWDA.MI to sync, got %v", result.Tickers)
		}
		if result.Added != 7 {
			t.Errorf("Expected 7 rows added, got %d", result.Added)
		}
	})

	t.Run("no mappings means no fetch calls", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewMockFetcher()
		svc := testutil.NewTestPriceService(t, db, fetcher)

		// Execute
		result, err := svc.SyncAll(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("SyncAll() returned unexpected error: %v", err)
		}
		if result.Added != 0 || len(fetcher.Calls) != 0 {
			t.Errorf("Expected an idle sync, got added=%d calls=%v", result.Added, fetcher.Calls)
		}
	})
}

// TestPriceService_History tests stored series retrieval.
func TestPriceService_History(t *testing.T) {
	t.Run("returns points in date order", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPriceService(t, db, testutil.NewMockFetcher())
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-01-03", 86.0)
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-01-02", 85.0)

		// Execute
		points, err := svc.History("SWDA.MI")

		// Assert
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("Expected 2 points, got %d", len(points))
		}
		if !points[0].Date.Before(points[1].Date) {
			t.Errorf("Expected ascending dates, got %v then %v", points[0].Date, points[1].Date)
		}
	})
}

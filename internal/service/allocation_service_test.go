package service_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/justetf"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/service"
	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

// fakeAllocationClient serves canned JustETF breakdowns per ISIN.
type fakeAllocationClient struct {
	breakdowns map[string]justetf.Breakdown
	err        error
}

func (f *fakeAllocationClient) FetchAllocation(_ context.Context, isin string) (justetf.Breakdown, error) {
	if f.err != nil {
		return justetf.Breakdown{}, f.err
	}
	return f.breakdowns[isin], nil
}

func newAllocationService(t *testing.T, db *sql.DB, client justetf.Client) *service.AllocationService {
	t.Helper()
	return service.NewAllocationService(
		repository.NewAllocationRepository(db),
		repository.NewMappingRepository(db),
		testutil.NewTestDashboardService(t, db),
		client,
		zerolog.Nop(),
	)
}

// TestAllocationService_Refresh tests allocation scraping and storage.
func TestAllocationService_Refresh(t *testing.T) {
	t.Run("stores the fetched breakdown under the mapped ticker", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		client := &fakeAllocationClient{breakdowns: map[string]justetf.Breakdown{
			"IE00B4L5Y983": {
				Geography: map[string]float64{"United States": 70.5, "Japan": 6.2},
				Sectors:   map[string]float64{"Technology": 24.1},
			},
		}}
		svc := newAllocationService(t, db, client)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")

		// Execute
		allocation, err := svc.Refresh(context.Background(), "IE00B4L5Y983")

		// Assert
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if allocation.Ticker != "SWDA.MI" {
			t.Errorf("Expected ticker SWDA.MI, got %s", allocation.Ticker)
		}

		stored, err := svc.Get("SWDA.MI")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if stored.Geography["United States"] != 70.5 {
			t.Errorf("Expected United States 70.5, got %f", stored.Geography["United States"])
		}
		if stored.Sectors["Technology"] != 24.1 {
			t.Errorf("Expected Technology 24.1, got %f", stored.Sectors["Technology"])
		}
	})

	t.Run("requires the isin to be mapped first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAllocationService(t, db, &fakeAllocationClient{})

		_, err := svc.Refresh(context.Background(), "IE00B4L5Y983")
		if !errors.Is(err, apperrors.ErrMappingNotFound) {
			t.Errorf("Expected ErrMappingNotFound, got %v", err)
		}
	})

	t.Run("wraps scraper failures as fetch errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAllocationService(t, db, &fakeAllocationClient{err: errors.New("blocked")})
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")

		_, err := svc.Refresh(context.Background(), "IE00B4L5Y983")
		if !errors.Is(err, apperrors.ErrFetchFailed) {
			t.Errorf("Expected ErrFetchFailed, got %v", err)
		}
	})
}

// TestAllocationService_Xray tests the value-weighted exposure report.
//
// WHY: the x-ray multiplies stored percentages by live market values;
// a sign or scale slip here silently misstates the user's exposure.
func TestAllocationService_Xray(t *testing.T) {
	t.Run("weights each asset's percentages by market value", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		client := &fakeAllocationClient{breakdowns: map[string]justetf.Breakdown{
			"IE00B4L5Y983": {
				Geography: map[string]float64{"United States": 60, "Japan": 40},
				Sectors:   map[string]float64{"Technology": 50},
			},
			"IE00BK5BQT80": {
				Geography: map[string]float64{"United States": 100},
			},
		}}
		svc := newAllocationService(t, db, client)

		// Two holdings: 10 x 100 = 1000 and 5 x 40 = 200.
		testutil.NewTransaction().WithIsin("IE00B4L5Y983").Buy(10, 900).Build(t, db)
		testutil.NewTransaction().WithIsin("IE00BK5BQT80").Buy(5, 180).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreateMapping(t, db, "IE00BK5BQT80", "VUSA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-03-01", 100)
		testutil.CreatePrice(t, db, "VUSA.MI", "2024-03-01", 40)

		for _, isin := range []string{"IE00B4L5Y983", "IE00BK5BQT80"} {
			if _, err := svc.Refresh(context.Background(), isin); err != nil {
				t.Fatalf("Refresh(%s) failed: %v", isin, err)
			}
		}

		// Execute
		report, err := svc.Xray()

		// Assert
		if err != nil {
			t.Fatalf("Xray() returned unexpected error: %v", err)
		}
		if report.TotalValue != 1200 {
			t.Errorf("Expected total value 1200, got %f", report.TotalValue)
		}
		// 60% of 1000 plus 100% of 200.
		if math.Abs(report.Geography["United States"]-800) > 1e-9 {
			t.Errorf("Expected United States 800, got %f", report.Geography["United States"])
		}
		if math.Abs(report.Geography["Japan"]-400) > 1e-9 {
			t.Errorf("Expected Japan 400, got %f", report.Geography["Japan"])
		}
		if math.Abs(report.Sectors["Technology"]-500) > 1e-9 {
			t.Errorf("Expected Technology 500, got %f", report.Sectors["Technology"])
		}
	})

	t.Run("holdings without allocation data still count toward total value", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := newAllocationService(t, db, &fakeAllocationClient{})

		testutil.NewTransaction().Buy(10, 900).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-03-01", 100)

		// Execute
		report, err := svc.Xray()

		// Assert
		if err != nil {
			t.Fatalf("Xray() returned unexpected error: %v", err)
		}
		if report.TotalValue != 1000 {
			t.Errorf("Expected total value 1000, got %f", report.TotalValue)
		}
		if len(report.Geography) != 0 || len(report.Sectors) != 0 {
			t.Errorf("Expected empty exposure maps, got %+v", report)
		}
	})
}

// TestAllocationService_Delete tests stored allocation removal.
func TestAllocationService_Delete(t *testing.T) {
	t.Run("returns not found for a ticker never refreshed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAllocationService(t, db, &fakeAllocationClient{})

		err := svc.Delete("SWDA.MI")
		if !errors.Is(err, apperrors.ErrAllocationNotFound) {
			t.Errorf("Expected ErrAllocationNotFound, got %v", err)
		}
	})
}

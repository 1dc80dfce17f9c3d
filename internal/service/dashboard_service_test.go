package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

// TestDashboardService_Summary tests the portfolio snapshot.
//
// WHY: the summary replays the whole ledger on every request. The
// per-ticker math (mapped transactions only, last known price, closed
// positions dropped) is the product's main screen.
func TestDashboardService_Summary(t *testing.T) {
	t.Run("values open positions at the latest stored price", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.NewTransaction().WithDate("2024-01-02").Buy(10, 850).Build(t, db)
		testutil.NewTransaction().WithDate("2024-02-01").Buy(5, 450).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-02-09", 95.0)
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-02-10", 100.0)

		// Execute
		summary, err := svc.Summary()

		// Assert
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(summary.Holdings))
		}
		h := summary.Holdings[0]
		if h.Quantity != 15 {
			t.Errorf("Expected quantity 15, got %f", h.Quantity)
		}
		if h.CurrentPrice != 100.0 {
			t.Errorf("Expected current price 100, got %f", h.CurrentPrice)
		}
		if h.MarketValue != 1500 {
			t.Errorf("Expected market value 1500, got %f", h.MarketValue)
		}
		if h.NetInvested != 1300 {
			t.Errorf("Expected net invested 1300, got %f", h.NetInvested)
		}
		if h.GainLoss != 200 {
			t.Errorf("Expected gain 200, got %f", h.GainLoss)
		}
		if summary.TotalValue != 1500 || summary.TotalInvested != 1300 {
			t.Errorf("Unexpected totals: %+v", summary)
		}
	})

	t.Run("fully sold positions disappear from holdings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.NewTransaction().WithDate("2024-01-02").Buy(10, 850).Build(t, db)
		testutil.NewTransaction().WithDate("2024-03-01").Sell(10, 950).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-03-01", 95.0)

		// Execute
		summary, err := svc.Summary()

		// Assert
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 0 {
			t.Errorf("Expected no open holdings, got %+v", summary.Holdings)
		}
	})

	t.Run("unmapped isins are listed but not valued", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.NewTransaction().WithIsin("IE00BK5BQT80").
			WithProduct("VANGUARD FTSE ALL-WORLD").Buy(5, 500).Build(t, db)

		// Execute
		summary, err := svc.Summary()

		// Assert
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 0 {
			t.Errorf("Expected no valued holdings, got %+v", summary.Holdings)
		}
		if len(summary.UnmappedIsins) != 1 || summary.UnmappedIsins[0] != "IE00BK5BQT80" {
			t.Errorf("Expected unmapped [IE00BK5BQT80], got %v", summary.UnmappedIsins)
		}
	})

	t.Run("mapped ticker without prices values at zero", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.NewTransaction().Buy(10, 1000).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")

		// Execute
		summary, err := svc.Summary()

		// Assert
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(summary.Holdings))
		}
		if summary.Holdings[0].MarketValue != 0 {
			t.Errorf("Expected zero market value without prices, got %f", summary.Holdings[0].MarketValue)
		}
		if summary.Holdings[0].GainLoss != -1000 {
			t.Errorf("Expected unrealized loss of the full cost, got %f", summary.Holdings[0].GainLoss)
		}
	})
}

// TestDashboardService_Liquidity tests manual versus derived liquidity.
func TestDashboardService_Liquidity(t *testing.T) {
	t.Run("positive manual override wins", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		settings := testutil.NewTestSettingsService(t, db)

		testutil.CreateBudgetEntry(t, db, "2024-03-01", model.BudgetIncome, "salary", 2500)
		if err := settings.SetManualLiquidity(12345.67); err != nil {
			t.Fatalf("SetManualLiquidity() failed: %v", err)
		}

		// Execute
		liquidity, err := svc.Liquidity()

		// Assert
		if err != nil {
			t.Fatalf("Liquidity() returned unexpected error: %v", err)
		}
		if !liquidity.Manual {
			t.Error("Expected manual mode")
		}
		if liquidity.Amount != 12345.67 {
			t.Errorf("Expected 12345.67, got %f", liquidity.Amount)
		}
	})

	t.Run("derives liquidity from ledger and broker flows", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.CreateBudgetEntry(t, db, "2024-03-01", model.BudgetIncome, "salary", 2500)
		testutil.CreateBudgetEntry(t, db, "2024-03-05", model.BudgetExpense, "rent", 900)
		testutil.NewTransaction().WithDate("2024-03-10").Buy(10, 1000).Build(t, db)

		// Execute
		liquidity, err := svc.Liquidity()

		// Assert
		if err != nil {
			t.Fatalf("Liquidity() returned unexpected error: %v", err)
		}
		if liquidity.Manual {
			t.Error("Expected derived mode")
		}
		// 2500 income - 900 expenses - 1000 sent to the broker.
		if math.Abs(liquidity.Amount-600) > 1e-9 {
			t.Errorf("Expected 600, got %f", liquidity.Amount)
		}
	})

	t.Run("cleared override falls back to derived mode", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		settings := testutil.NewTestSettingsService(t, db)

		testutil.CreateBudgetEntry(t, db, "2024-03-01", model.BudgetIncome, "salary", 2500)
		if err := settings.SetManualLiquidity(9999); err != nil {
			t.Fatalf("SetManualLiquidity() failed: %v", err)
		}
		if err := settings.ClearManualLiquidity(); err != nil {
			t.Fatalf("ClearManualLiquidity() failed: %v", err)
		}

		// Execute
		liquidity, err := svc.Liquidity()

		// Assert
		if err != nil {
			t.Fatalf("Liquidity() returned unexpected error: %v", err)
		}
		if liquidity.Manual {
			t.Error("Expected derived mode after clearing the override")
		}
		if liquidity.Amount != 2500 {
			t.Errorf("Expected 2500, got %f", liquidity.Amount)
		}
	})
}

// TestDashboardService_AssetDetail tests the per-asset drill-down.
func TestDashboardService_AssetDetail(t *testing.T) {
	t.Run("assembles position, prices and transactions", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		testutil.NewTransaction().WithDate("2024-01-02").Buy(10, 850).Build(t, db)
		testutil.NewTransaction().WithDate("2024-02-01").Buy(5, 450).Build(t, db)
		testutil.CreateMapping(t, db, "IE00B4L5Y983", "SWDA.MI", "equity")
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-02-09", 95.0)
		testutil.CreatePrice(t, db, "SWDA.MI", "2024-02-10", 100.0)

		// Execute
		detail, err := svc.AssetDetail("SWDA.MI")

		// Assert
		if err != nil {
			t.Fatalf("AssetDetail() returned unexpected error: %v", err)
		}
		if detail.Quantity != 15 {
			t.Errorf("Expected quantity 15, got %f", detail.Quantity)
		}
		if detail.LastPrice != 100.0 {
			t.Errorf("Expected last price 100, got %f", detail.LastPrice)
		}
		if detail.MarketValue != 1500 {
			t.Errorf("Expected market value 1500, got %f", detail.MarketValue)
		}
		if len(detail.Transactions) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(detail.Transactions))
		}
		if len(detail.Prices) != 2 {
			t.Errorf("Expected 2 price points, got %d", len(detail.Prices))
		}
	})

	t.Run("returns not found for an unknown ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		_, err := svc.AssetDetail("NOPE.XX")
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})
}

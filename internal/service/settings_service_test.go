package service_test

import (
	"errors"
	"testing"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/testutil"
)

// TestSettingsService_ManualLiquidity tests the override lifecycle.
func TestSettingsService_ManualLiquidity(t *testing.T) {
	t.Run("unset override is inactive", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		// Execute
		amount, active, err := svc.ManualLiquidity()

		// Assert
		if err != nil {
			t.Fatalf("ManualLiquidity() returned unexpected error: %v", err)
		}
		if active || amount != 0 {
			t.Errorf("Expected inactive override, got amount=%f active=%v", amount, active)
		}
	})

	t.Run("set then read round trips", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		// Execute
		if err := svc.SetManualLiquidity(1500.50); err != nil {
			t.Fatalf("SetManualLiquidity() returned unexpected error: %v", err)
		}
		amount, active, err := svc.ManualLiquidity()

		// Assert
		if err != nil {
			t.Fatalf("ManualLiquidity() returned unexpected error: %v", err)
		}
		if !active || amount != 1500.50 {
			t.Errorf("Expected active override of 1500.50, got amount=%f active=%v", amount, active)
		}
	})

	t.Run("storing zero deactivates the override", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		if err := svc.SetManualLiquidity(1500.50); err != nil {
			t.Fatalf("SetManualLiquidity() returned unexpected error: %v", err)
		}

		// Execute
		if err := svc.SetManualLiquidity(0); err != nil {
			t.Fatalf("SetManualLiquidity(0) returned unexpected error: %v", err)
		}
		_, active, err := svc.ManualLiquidity()

		// Assert
		if err != nil {
			t.Fatalf("ManualLiquidity() returned unexpected error: %v", err)
		}
		if active {
			t.Error("Expected a stored zero to behave as no override")
		}
	})

	t.Run("clearing is idempotent", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		// Execute
		if err := svc.ClearManualLiquidity(); err != nil {
			t.Fatalf("ClearManualLiquidity() on empty table failed: %v", err)
		}
		if err := svc.SetManualLiquidity(100); err != nil {
			t.Fatalf("SetManualLiquidity() returned unexpected error: %v", err)
		}
		if err := svc.ClearManualLiquidity(); err != nil {
			t.Fatalf("ClearManualLiquidity() returned unexpected error: %v", err)
		}

		// Assert
		_, active, err := svc.ManualLiquidity()
		if err != nil {
			t.Fatalf("ManualLiquidity() returned unexpected error: %v", err)
		}
		if active {
			t.Error("Expected no override after clearing")
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		err := svc.SetManualLiquidity(-1)
		if !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Errorf("Expected ErrNegativeAmount, got %v", err)
		}
	})
}

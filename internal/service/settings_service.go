package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
)

// SettingsService manages flat key/value settings, in particular the
// manual liquidity override.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService with the provided repository.
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// ManualLiquidity returns the manual liquidity override if one is set
// and positive. A stored zero or negative value means the override is
// inactive, matching how clearing works: setting zero and deleting the
// key are equivalent.
func (s *SettingsService) ManualLiquidity() (float64, bool, error) {
	raw, err := s.settingsRepo.Get(model.SettingManualLiquidity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveSettings, err)
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: stored value %q is not a number", apperrors.ErrFailedToRetrieveSettings, raw)
	}
	if amount <= 0 {
		return 0, false, nil
	}
	return amount, true, nil
}

// SetManualLiquidity stores the manual liquidity override.
func (s *SettingsService) SetManualLiquidity(amount float64) error {
	if amount < 0 {
		return apperrors.ErrNegativeAmount
	}
	return s.settingsRepo.Set(model.SettingManualLiquidity, strconv.FormatFloat(amount, 'f', -1, 64))
}

// ClearManualLiquidity removes the override, returning the dashboard to
// automatic liquidity calculation.
func (s *SettingsService) ClearManualLiquidity() error {
	return s.settingsRepo.Delete(model.SettingManualLiquidity)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/justetf"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
)

// AllocationService manages per-asset allocation data and computes the
// value-weighted exposure x-ray across the whole portfolio.
type AllocationService struct {
	allocationRepo   *repository.AllocationRepository
	mappingRepo      *repository.MappingRepository
	dashboardService *DashboardService
	client           justetf.Client
	log              zerolog.Logger
}

// NewAllocationService creates a new AllocationService with the provided dependencies.
func NewAllocationService(
	allocationRepo *repository.AllocationRepository,
	mappingRepo *repository.MappingRepository,
	dashboardService *DashboardService,
	client justetf.Client,
	log zerolog.Logger,
) *AllocationService {
	return &AllocationService{
		allocationRepo:   allocationRepo,
		mappingRepo:      mappingRepo,
		dashboardService: dashboardService,
		client:           client,
		log:              log.With().Str("component", "allocation").Logger(),
	}
}

// Get retrieves the stored allocation for one ticker.
func (s *AllocationService) Get(ticker string) (model.Allocation, error) {
	if ticker == "" {
		return model.Allocation{}, apperrors.ErrInvalidTicker
	}
	a, err := s.allocationRepo.Get(ticker)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Allocation{}, apperrors.ErrAllocationNotFound
	}
	if err != nil {
		return model.Allocation{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveAllocation, err)
	}
	return a, nil
}

// Delete removes the stored allocation for one ticker.
func (s *AllocationService) Delete(ticker string) error {
	if ticker == "" {
		return apperrors.ErrInvalidTicker
	}
	err := s.allocationRepo.Delete(ticker)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrAllocationNotFound
	}
	return err
}

// Refresh scrapes JustETF for an ISIN's composition and stores it under
// the mapped ticker. The ISIN must be mapped first: allocation data is
// keyed by ticker so it can be joined against holdings.
func (s *AllocationService) Refresh(ctx context.Context, isin string) (model.Allocation, error) {
	mapping, err := s.mappingRepo.Get(isin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Allocation{}, apperrors.ErrMappingNotFound
	}
	if err != nil {
		return model.Allocation{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveMapping, err)
	}

	breakdown, err := s.client.FetchAllocation(ctx, isin)
	if err != nil {
		return model.Allocation{}, fmt.Errorf("%w: %s", apperrors.ErrFetchFailed, err)
	}

	allocation := model.Allocation{
		Ticker:    mapping.Ticker,
		Geography: breakdown.Geography,
		Sectors:   breakdown.Sectors,
	}
	if err := s.allocationRepo.Upsert(allocation); err != nil {
		return model.Allocation{}, err
	}

	s.log.Info().Str("isin", isin).Str("ticker", mapping.Ticker).
		Int("countries", len(breakdown.Geography)).Int("sectors", len(breakdown.Sectors)).
		Msg("allocation refreshed")
	return allocation, nil
}

// Xray aggregates allocations across every open position, weighting
// each asset's percentages by its current market value. The output maps
// carry reporting-currency amounts per country and per sector. Held
// assets without allocation data contribute to TotalValue but to
// neither map; the report is only as complete as the fetched data.
func (s *AllocationService) Xray() (model.ExposureReport, error) {
	summary, err := s.dashboardService.Summary()
	if err != nil {
		return model.ExposureReport{}, err
	}
	allocations, err := s.allocationRepo.GetAll()
	if err != nil {
		return model.ExposureReport{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveAllocation, err)
	}

	byTicker := make(map[string]model.Allocation, len(allocations))
	for _, a := range allocations {
		byTicker[a.Ticker] = a
	}

	report := model.ExposureReport{
		Geography: make(map[string]float64),
		Sectors:   make(map[string]float64),
	}

	for _, h := range summary.Holdings {
		report.TotalValue += h.MarketValue
		a, ok := byTicker[h.Ticker]
		if !ok {
			continue
		}
		for country, pct := range a.Geography {
			report.Geography[country] += h.MarketValue * pct / 100
		}
		for sector, pct := range a.Sectors {
			report.Sectors[sector] += h.MarketValue * pct / 100
		}
	}

	return report, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

// BenchmarkService orchestrates benchmark simulations: it assembles the
// data snapshot, consults the fingerprint cache and runs the valuation
// engine on misses.
type BenchmarkService struct {
	transactionRepo  *repository.TransactionRepository
	mappingRepo      *repository.MappingRepository
	priceRepo        *repository.PriceRepository
	simulator        *valuation.Simulator
	cache            *valuation.Cache
	defaultBenchmark string
	log              zerolog.Logger
}

// NewBenchmarkService creates a new BenchmarkService with the provided dependencies.
func NewBenchmarkService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
	priceRepo *repository.PriceRepository,
	simulator *valuation.Simulator,
	defaultBenchmark string,
	log zerolog.Logger,
) *BenchmarkService {
	return &BenchmarkService{
		transactionRepo:  transactionRepo,
		mappingRepo:      mappingRepo,
		priceRepo:        priceRepo,
		simulator:        simulator,
		cache:            valuation.NewCache(),
		defaultBenchmark: defaultBenchmark,
		log:              log.With().Str("component", "benchmark").Logger(),
	}
}

// Simulate runs (or replays from cache) a what-if simulation against a
// benchmark ticker. An empty ticker falls back to the configured
// default benchmark.
//
// The cache key is a content hash of the full input snapshot, so any
// new transaction, mapping edit or price sync naturally invalidates
// previous results while repeat requests on unchanged data skip the
// scan and the remote benchmark fetch entirely.
func (s *BenchmarkService) Simulate(ctx context.Context, benchmark string) (*valuation.Result, error) {
	if benchmark == "" {
		benchmark = s.defaultBenchmark
	}

	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRunSimulation, err)
	}
	if len(transactions) == 0 {
		return nil, apperrors.ErrNoTransactions
	}
	mappings, err := s.mappingRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRunSimulation, err)
	}
	prices, err := s.priceRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRunSimulation, err)
	}

	fingerprint := valuation.Fingerprint(benchmark, transactions, mappings, prices)
	if cached, ok := s.cache.Get(fingerprint); ok {
		s.log.Debug().Str("benchmark", benchmark).Msg("simulation served from cache")
		return cached, nil
	}

	result, err := s.simulator.Simulate(ctx, benchmark, transactions, mappings, prices)
	if err != nil {
		return nil, err
	}

	s.cache.Put(fingerprint, result)
	s.log.Info().Str("benchmark", benchmark).Int("points", len(result.Points)).
		Msg("simulation computed")
	return result, nil
}

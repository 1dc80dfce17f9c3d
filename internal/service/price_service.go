package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

// syncConcurrency bounds parallel Yahoo requests during a sync. Yahoo
// throttles aggressively above a handful of concurrent calls.
const syncConcurrency = 4

// PriceService handles price history storage and incremental
// synchronization from Yahoo Finance.
type PriceService struct {
	priceRepo   *repository.PriceRepository
	mappingRepo *repository.MappingRepository
	fetcher     valuation.SeriesFetcher
	start       time.Time // history start for tickers never synced
	log         zerolog.Logger
}

// NewPriceService creates a new PriceService.
//
// Parameters:
//   - priceRepo: price storage
//   - mappingRepo: source of the set of tickers to sync
//   - fetcher: remote daily-close source
//   - historyStart: first date to download for tickers with no stored prices
//   - log: structured logger
func NewPriceService(
	priceRepo *repository.PriceRepository,
	mappingRepo *repository.MappingRepository,
	fetcher valuation.SeriesFetcher,
	historyStart time.Time,
	log zerolog.Logger,
) *PriceService {
	return &PriceService{
		priceRepo:   priceRepo,
		mappingRepo: mappingRepo,
		fetcher:     fetcher,
		start:       historyStart,
		log:         log.With().Str("component", "prices").Logger(),
	}
}

// History retrieves the stored price series for one ticker.
func (s *PriceService) History(ticker string) ([]model.PricePoint, error) {
	if ticker == "" {
		return nil, apperrors.ErrInvalidTicker
	}
	points, err := s.priceRepo.GetByTicker(ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrievePrices, err)
	}
	return points, nil
}

// SyncAll downloads missing daily closes for every mapped ticker,
// fanning out with bounded concurrency. Each ticker resumes from the
// day after its last stored date; tickers never synced start at the
// configured history start. Tickers already current through yesterday
// are skipped without a network call.
//
// A ticker that fails to fetch is logged and skipped so one delisted
// symbol cannot block the rest; duplicate (ticker, date) pairs are
// dropped by the store.
func (s *PriceService) SyncAll(ctx context.Context) (model.PriceSyncResult, error) {
	tickers, err := s.mappingRepo.Tickers()
	if err != nil {
		return model.PriceSyncResult{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToSyncPrices, err)
	}
	if len(tickers) == 0 {
		return model.PriceSyncResult{}, nil
	}

	today := valuation.Day(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	var mu sync.Mutex
	result := model.PriceSyncResult{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			start := s.start
			last, ok, err := s.priceRepo.LastDate(ticker)
			if err != nil {
				return err
			}
			if ok {
				if !last.Before(yesterday) {
					return nil
				}
				start = last.AddDate(0, 0, 1)
			}

			points, err := s.fetcher.FetchDailyCloses(ctx, ticker, start, today)
			if err != nil {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("price fetch failed, skipping ticker")
				return nil
			}

			rows := make([]model.PricePoint, len(points))
			for i, p := range points {
				rows[i] = model.PricePoint{Ticker: ticker, Date: p.Date, ClosePrice: p.Value}
			}
			added, err := s.priceRepo.InsertIgnoreDuplicates(rows)
			if err != nil {
				return err
			}

			if added > 0 {
				mu.Lock()
				result.Added += added
				result.Tickers = append(result.Tickers, ticker)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.PriceSyncResult{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToSyncPrices, err)
	}

	sort.Strings(result.Tickers)
	s.log.Info().Int("added", result.Added).Strs("tickers", result.Tickers).Msg("price sync complete")
	return result, nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/service"
)

// priceSyncTimeout bounds one full sync run. Generous: a cold start
// downloads several years of history per ticker.
const priceSyncTimeout = 10 * time.Minute

// PriceSyncJob downloads missing daily closes for all mapped tickers.
type PriceSyncJob struct {
	priceService *service.PriceService
}

// NewPriceSyncJob creates the daily price synchronization job.
func NewPriceSyncJob(priceService *service.PriceService) *PriceSyncJob {
	return &PriceSyncJob{priceService: priceService}
}

// Name implements Job.
func (j *PriceSyncJob) Name() string { return "price_sync" }

// Run implements Job.
func (j *PriceSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), priceSyncTimeout)
	defer cancel()

	_, err := j.priceService.SyncAll(ctx)
	return err
}

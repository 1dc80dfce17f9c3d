package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/api"
	"github.com/avitali/portfolio-dashboard/internal/config"
	"github.com/avitali/portfolio-dashboard/internal/database"
	"github.com/avitali/portfolio-dashboard/internal/degiro"
	"github.com/avitali/portfolio-dashboard/internal/justetf"
	"github.com/avitali/portfolio-dashboard/internal/logging"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/scheduler"
	"github.com/avitali/portfolio-dashboard/internal/service"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
	"github.com/avitali/portfolio-dashboard/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logging.SetGlobalLogger(log)

	// Open database connection and run migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()
	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	historyStart, err := time.Parse("2006-01-02", cfg.Portfolio.PriceHistoryStart)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid PRICE_HISTORY_START")
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)

	// External clients
	financeClient := yahoo.NewFinanceClient()
	justetfClient := justetf.NewHTTPClient()

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo, degiro.NewParser(log), log)
	mappingService := service.NewMappingService(mappingRepo)
	priceService := service.NewPriceService(priceRepo, mappingRepo, financeClient, historyStart, log)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(transactionRepo, mappingRepo, priceRepo, settingsService, budgetRepo)
	benchmarkService := service.NewBenchmarkService(
		transactionRepo,
		mappingRepo,
		priceRepo,
		&valuation.Simulator{Fetcher: financeClient, Reporting: cfg.Portfolio.ReportingCurrency},
		cfg.Portfolio.DefaultBenchmark,
		log,
	)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo)
	allocationService := service.NewAllocationService(allocationRepo, mappingRepo, dashboardService, justetfClient, log)

	// Background jobs
	jobs := scheduler.New(log)
	if err := jobs.AddJob(cfg.Portfolio.SyncSchedule, scheduler.NewPriceSyncJob(priceService)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register price sync job")
	}
	jobs.Start()
	defer jobs.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Transaction: transactionService,
		Mapping:     mappingService,
		Price:       priceService,
		Dashboard:   dashboardService,
		Benchmark:   benchmarkService,
		Budget:      budgetService,
		Settings:    settingsService,
		Allocation:  allocationService,
	}, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // simulations may fetch remote series
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

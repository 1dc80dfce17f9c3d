package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/avitali/portfolio-dashboard/internal/api/handlers"
	custommiddleware "github.com/avitali/portfolio-dashboard/internal/api/middleware"
	"github.com/avitali/portfolio-dashboard/internal/config"
	"github.com/avitali/portfolio-dashboard/internal/service"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Mapping     *service.MappingService
	Price       *service.PriceService
	Dashboard   *service.DashboardService
	Benchmark   *service.BenchmarkService
	Budget      *service.BudgetService
	Settings    *service.SettingsService
	Allocation  *service.AllocationService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Get("/", transactionHandler.List)
			r.Post("/import", transactionHandler.Import)
			r.Get("/unmapped", transactionHandler.Unmapped)
			r.Delete("/{id}", transactionHandler.Delete)
		})

		r.Route("/mapping", func(r chi.Router) {
			mappingHandler := handlers.NewMappingHandler(svc.Mapping)
			r.Get("/", mappingHandler.List)
			r.Put("/", mappingHandler.Replace)
			r.Post("/", mappingHandler.Upsert)
			r.Get("/{isin}", mappingHandler.Get)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Price)
			r.Post("/sync", priceHandler.Sync)
			r.Get("/{ticker}", priceHandler.History)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/history", dashboardHandler.History)
			r.Get("/liquidity", dashboardHandler.Liquidity)
		})

		r.Route("/asset", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
			r.Get("/{ticker}", dashboardHandler.Asset)
		})

		r.Route("/benchmark", func(r chi.Router) {
			benchmarkHandler := handlers.NewBenchmarkHandler(svc.Benchmark)
			r.Get("/simulate", benchmarkHandler.Simulate)
		})

		r.Route("/budget", func(r chi.Router) {
			budgetHandler := handlers.NewBudgetHandler(svc.Budget)
			r.Get("/", budgetHandler.List)
			r.Post("/", budgetHandler.Create)
			r.Get("/summary", budgetHandler.Summary)
			r.Delete("/{id}", budgetHandler.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/liquidity", settingsHandler.GetLiquidity)
			r.Put("/liquidity", settingsHandler.SetLiquidity)
			r.Delete("/liquidity", settingsHandler.ClearLiquidity)
		})

		r.Route("/allocation", func(r chi.Router) {
			allocationHandler := handlers.NewAllocationHandler(svc.Allocation)
			r.Get("/xray", allocationHandler.Xray)
			r.Post("/refresh", allocationHandler.Refresh)
			r.Get("/{ticker}", allocationHandler.Get)
			r.Delete("/{ticker}", allocationHandler.Delete)
		})
	})

	return r
}

package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/repository"
	"github.com/avitali/portfolio-dashboard/internal/valuation"
)

// holdingEpsilon mirrors the valuation engine's closed-position cutoff.
const holdingEpsilon = 0.001

// DashboardService computes the portfolio overview: current holdings,
// aggregate gains, the value-versus-cost history and the liquidity
// figure.
type DashboardService struct {
	transactionRepo *repository.TransactionRepository
	mappingRepo     *repository.MappingRepository
	priceRepo       *repository.PriceRepository
	settingsService *SettingsService
	budgetRepo      *repository.BudgetRepository
}

// NewDashboardService creates a new DashboardService with the provided dependencies.
func NewDashboardService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
	priceRepo *repository.PriceRepository,
	settingsService *SettingsService,
	budgetRepo *repository.BudgetRepository,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		priceRepo:       priceRepo,
		settingsService: settingsService,
		budgetRepo:      budgetRepo,
	}
}

// holdingAccumulator aggregates per-ticker position state while
// replaying transactions.
type holdingAccumulator struct {
	product     string
	isin        string
	category    string
	quantity    float64
	netInvested float64
}

// Summary computes the current dashboard snapshot: every open position
// valued at its latest known price, aggregate totals and the list of
// unmapped ISINs needing attention.
func (s *DashboardService) Summary() (model.DashboardSummary, error) {
	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	mappings, err := s.mappingRepo.GetAll()
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveMapping, err)
	}
	prices, err := s.priceRepo.GetAll()
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrievePrices, err)
	}
	unmapped, err := s.transactionRepo.UnmappedIsins()
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	mappingByIsin := make(map[string]model.Mapping, len(mappings))
	for _, m := range mappings {
		mappingByIsin[m.Isin] = m
	}

	byTicker := make(map[string]*holdingAccumulator)
	for _, tx := range transactions {
		m, ok := mappingByIsin[tx.Isin]
		if !ok {
			continue
		}
		acc := byTicker[m.Ticker]
		if acc == nil {
			acc = &holdingAccumulator{isin: tx.Isin, category: m.Category}
			byTicker[m.Ticker] = acc
		}
		if tx.Product != "" {
			acc.product = tx.Product
		}
		acc.quantity += tx.Quantity
		acc.netInvested += -tx.LocalValue
	}

	book := valuation.BuildPriceBook(prices)
	today := valuation.Day(time.Now())

	summary := model.DashboardSummary{UnmappedIsins: unmapped}

	tickers := make([]string, 0, len(byTicker))
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		acc := byTicker[ticker]
		if acc.quantity <= holdingEpsilon {
			continue
		}
		price, _ := book[ticker].AsOf(today)
		marketValue := acc.quantity * price

		h := model.HoldingView{
			Product:      acc.product,
			Isin:         acc.isin,
			Ticker:       ticker,
			Category:     acc.category,
			Quantity:     acc.quantity,
			NetInvested:  acc.netInvested,
			CurrentPrice: price,
			MarketValue:  marketValue,
			GainLoss:     marketValue - acc.netInvested,
		}
		if acc.netInvested > 0 {
			h.GainLossPct = h.GainLoss / acc.netInvested * 100
		}

		summary.Holdings = append(summary.Holdings, h)
		summary.TotalValue += marketValue
		summary.TotalInvested += acc.netInvested
	}

	summary.TotalGainLoss = summary.TotalValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.GainLossPct = summary.TotalGainLoss / summary.TotalInvested * 100
	}

	return summary, nil
}

// History computes the daily value-versus-cost series from the first
// transaction through today.
func (s *DashboardService) History() ([]model.HistoryPoint, error) {
	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	mappings, err := s.mappingRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveMapping, err)
	}
	prices, err := s.priceRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrievePrices, err)
	}

	return valuation.PortfolioHistory(transactions, mappings, prices), nil
}

// Liquidity resolves the current cash figure. A positive manual
// override wins; otherwise it is derived from the ledger and the
// broker flows as income minus expenses minus net invested cash.
func (s *DashboardService) Liquidity() (model.Liquidity, error) {
	if amount, ok, err := s.settingsService.ManualLiquidity(); err != nil {
		return model.Liquidity{}, err
	} else if ok {
		return model.Liquidity{Amount: amount, Manual: true}, nil
	}

	entries, err := s.budgetRepo.List(time.Time{}, time.Time{})
	if err != nil {
		return model.Liquidity{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveBudget, err)
	}
	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return model.Liquidity{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	amount := 0.0
	for _, e := range entries {
		switch e.Type {
		case model.BudgetIncome:
			amount += e.Amount
		case model.BudgetExpense:
			amount -= e.Amount
		}
	}
	for _, tx := range transactions {
		// local_value is negative for purchases: adding it back removes
		// invested cash from the liquid pool.
		amount += tx.LocalValue
	}

	return model.Liquidity{Amount: amount}, nil
}

// AssetDetail assembles the drill-down view for one mapped ticker:
// position KPIs, the full stored price history and the asset's
// transactions.
func (s *DashboardService) AssetDetail(ticker string) (model.AssetDetail, error) {
	if ticker == "" {
		return model.AssetDetail{}, apperrors.ErrInvalidTicker
	}

	all, err := s.transactionRepo.ListWithMapping()
	if err != nil {
		return model.AssetDetail{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	detail := model.AssetDetail{Ticker: ticker}
	for _, tx := range all {
		if tx.Ticker != ticker {
			continue
		}
		if tx.Product != "" {
			detail.Product = tx.Product
		}
		detail.Isin = tx.Isin
		detail.Quantity += tx.Quantity
		detail.NetInvested += -tx.LocalValue
		detail.Transactions = append(detail.Transactions, tx)
	}
	if len(detail.Transactions) == 0 {
		return model.AssetDetail{}, apperrors.ErrAssetNotFound
	}

	prices, err := s.priceRepo.GetByTicker(ticker)
	if err != nil {
		return model.AssetDetail{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToRetrievePrices, err)
	}
	detail.Prices = prices
	if len(prices) > 0 {
		detail.LastPrice = prices[len(prices)-1].ClosePrice
	}
	detail.MarketValue = detail.Quantity * detail.LastPrice
	detail.GainLoss = detail.MarketValue - detail.NetInvested

	return detail, nil
}

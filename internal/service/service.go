package service

import (
	"github.com/carson-networks/fintrack-server/internal/config"
	"github.com/carson-networks/fintrack-server/internal/exchange"
	"github.com/carson-networks/fintrack-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Budget      *BudgetService
	Currency    *CurrencyService
	Market      *MarketService
}

// NewService wires the services against storage, the write operator and the
// upstream rate and price clients.
func NewService(
	env *config.Config,
	store *storage.Storage,
	processor ActionProcessor,
	rates *exchange.RatesClient,
	prices *exchange.PriceClient,
	metrics *Metrics,
) *Service {
	return &Service{
		Transaction: NewTransactionService(
			processor,
			store.Transactions,
			rates,
			NewIPHasher(env.IPHashSalt),
			env.BaseCurrency,
			metrics,
		),
		Budget:   NewBudgetService(store.Budgets, store.Transactions),
		Currency: NewCurrencyService(rates),
		Market:   NewMarketService(prices),
	}
}

package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Market data kinds.
const (
	MarketCrypto = "crypto"
	MarketStock  = "stock"
)

const maxMarketSymbols = 50

// PriceSource quotes crypto assets in the base currency.
type PriceSource interface {
	CryptoPrices(ctx context.Context, ids []string) map[string]decimal.Decimal
}

// MarketPrices is a batch of quotes keyed by the requested symbol.
type MarketPrices struct {
	Prices      map[string]decimal.Decimal
	LastUpdated time.Time
}

// MarketService quotes market prices.
type MarketService struct {
	prices PriceSource
	now    func() time.Time
}

func NewMarketService(prices PriceSource) *MarketService {
	return &MarketService{prices: prices, now: time.Now}
}

// Prices quotes symbols of the given kind. Only crypto is supported; symbols
// the provider cannot price are reported as zero.
func (s *MarketService) Prices(ctx context.Context, symbols []string, kind string) (*MarketPrices, error) {
	switch kind {
	case MarketCrypto:
	case MarketStock:
		return nil, newValidationError("Stock market data is not supported")
	default:
		return nil, newValidationError("Type must be one of: crypto, stock")
	}
	if len(symbols) > maxMarketSymbols {
		return nil, newValidationError("At most %d symbols can be requested", maxMarketSymbols)
	}

	return &MarketPrices{
		Prices:      s.prices.CryptoPrices(ctx, symbols),
		LastUpdated: s.now().UTC(),
	}, nil
}

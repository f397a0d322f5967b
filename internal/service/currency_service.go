package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/fintrack-server/internal/exchange"
)

// RatesProvider returns the full rate table for a currency.
type RatesProvider interface {
	GetRates(ctx context.Context, from string) (*exchange.Rates, error)
}

// Conversion is the result of a currency conversion.
type Conversion struct {
	From            string
	To              string
	Rate            decimal.Decimal
	Amount          *decimal.Decimal
	ConvertedAmount decimal.Decimal
	LastUpdated     string
}

// CurrencyService converts amounts between currencies.
type CurrencyService struct {
	rates RatesProvider
}

func NewCurrencyService(rates RatesProvider) *CurrencyService {
	return &CurrencyService{rates: rates}
}

// Convert looks up the from→to rate. Without an amount the rate itself is
// returned as the converted amount.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount *decimal.Decimal) (*Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return nil, newValidationError("Missing required fields: from, to")
	}

	rates, err := s.rates.GetRates(ctx, from)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	rate, err := rates.Lookup(to)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	conversion := &Conversion{
		From:            from,
		To:              to,
		Rate:            rate,
		Amount:          amount,
		ConvertedAmount: rate,
		LastUpdated:     rates.Date,
	}
	if amount != nil && !amount.IsZero() {
		conversion.ConvertedAmount = amount.Mul(rate)
	}
	return conversion, nil
}

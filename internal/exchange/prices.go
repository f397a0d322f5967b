package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type coinQuote struct {
	INR *decimal.Decimal `json:"inr"`
	USD *decimal.Decimal `json:"usd"`
}

// PriceClient reads spot prices from a CoinGecko compatible API.
type PriceClient struct {
	baseURL     string
	http        *http.Client
	usdFallback decimal.Decimal
}

// NewPriceClient builds a PriceClient. usdFallback converts a USD-only quote
// into the base currency.
func NewPriceClient(baseURL string, timeout time.Duration, usdFallback float64) *PriceClient {
	return &PriceClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        newHTTPClient(timeout),
		usdFallback: decimal.NewFromFloat(usdFallback),
	}
}

// CryptoPrices returns a price for every requested coin id. A coin that cannot
// be fetched is reported as zero rather than failing the whole batch.
func (c *PriceClient) CryptoPrices(ctx context.Context, ids []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		price, err := c.cryptoPrice(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("symbol", id).Warn("PriceClient.CryptoPrices.fetch failed")
			price = decimal.Zero
		}
		prices[id] = price
	}
	return prices
}

func (c *PriceClient) cryptoPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	coin := strings.ToLower(strings.TrimSpace(id))
	query := url.Values{}
	query.Set("ids", coin)
	query.Set("vs_currencies", "inr,usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("price for %s: unexpected status %d", coin, resp.StatusCode)
	}

	var quotes map[string]coinQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return decimal.Zero, fmt.Errorf("decode price for %s: %w", coin, err)
	}

	quote, ok := quotes[coin]
	switch {
	case !ok:
		return decimal.Zero, nil
	case quote.INR != nil && !quote.INR.IsZero():
		return *quote.INR, nil
	case quote.USD != nil:
		return quote.USD.Mul(c.usdFallback), nil
	default:
		return decimal.Zero, nil
	}
}

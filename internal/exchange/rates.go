package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when the upstream answered but carried no
// usable rate for the requested pair.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Rates is the latest-rates document for one source currency.
type Rates struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// RatesClient talks to an exchangerate-api compatible "latest" endpoint.
type RatesClient struct {
	baseURL string
	http    *http.Client
}

func NewRatesClient(baseURL string, timeout time.Duration) *RatesClient {
	return &RatesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout),
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return client
}

// ConversionCurrency maps currencies the rates API does not know to an
// equivalent it does. USDT is pegged to USD.
func ConversionCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "USDT" {
		return "USD"
	}
	return code
}

// GetRates fetches every rate quoted against from.
func (c *RatesClient) GetRates(ctx context.Context, from string) (*Rates, error) {
	from = ConversionCurrency(from)
	if from == "" {
		return nil, fmt.Errorf("%w: empty source currency", ErrRateUnavailable)
	}

	endpoint := c.baseURL + "/" + url.PathEscape(from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates for %s: %w", from, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch rates for %s: unexpected status %d", from, resp.StatusCode)
	}

	var rates Rates
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return nil, fmt.Errorf("decode rates for %s: %w", from, err)
	}
	return &rates, nil
}

// Rate returns how many units of to one unit of from buys.
func (c *RatesClient) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	rates, err := c.GetRates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	return rates.Lookup(to)
}

// Lookup returns the rate for code, rejecting absent and non-positive values.
func (r *Rates) Lookup(code string) (decimal.Decimal, error) {
	rate, ok := r.Rates[strings.ToUpper(code)]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateUnavailable, r.Base, code)
	}
	return rate, nil
}

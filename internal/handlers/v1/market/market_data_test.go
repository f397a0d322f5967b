package market

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/service"
)

const testSecret = "market-handler-test-secret-0123456789"

type mockMarketService struct {
	mock.Mock
}

func (m *mockMarketService) Prices(ctx context.Context, symbols []string, kind string) (*service.MarketPrices, error) {
	args := m.Called(ctx, symbols, kind)
	prices, _ := args.Get(0).(*service.MarketPrices)
	return prices, args.Error(1)
}

func newTestAPI(t *testing.T, svc priceQuoter) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewMarketDataHandler(svc).Register(api, auth.Middleware(api, auth.NewJWTAuthenticator(testSecret, "")))
	return api
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, "", uuid.Must(uuid.NewV4()), time.Hour)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func TestHTTP_MarketData_Crypto(t *testing.T) {
	mockSvc := new(mockMarketService)
	mockSvc.On("Prices", mock.Anything, []string{"bitcoin", "dogecoin"}, "crypto").Return(&service.MarketPrices{
		Prices: map[string]decimal.Decimal{
			"bitcoin":  decimal.NewFromInt(5000000),
			"dogecoin": decimal.Zero,
		},
		LastUpdated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/market-data", bearer(t),
		MarketDataBody{Symbols: []string{"bitcoin", "dogecoin"}, Type: "crypto"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body MarketDataResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "5000000", body.Prices["bitcoin"])
	assert.Equal(t, "0", body.Prices["dogecoin"])
	assert.Equal(t, "2025-06-01T12:00:00Z", body.LastUpdated)
}

func TestHTTP_MarketData_StockRejected(t *testing.T) {
	mockSvc := new(mockMarketService)
	mockSvc.On("Prices", mock.Anything, mock.Anything, "stock").
		Return(nil, &service.ValidationError{Message: "Stock market data is not supported"})

	resp := newTestAPI(t, mockSvc).Post("/v1/market-data", bearer(t),
		MarketDataBody{Symbols: []string{"AAPL"}, Type: "stock"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_MarketData_UnknownType(t *testing.T) {
	mockSvc := new(mockMarketService)

	resp := newTestAPI(t, mockSvc).Post("/v1/market-data", bearer(t),
		MarketDataBody{Symbols: []string{"gold"}, Type: "commodity"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Prices", mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_MarketData_MissingToken(t *testing.T) {
	mockSvc := new(mockMarketService)

	resp := newTestAPI(t, mockSvc).Post("/v1/market-data", MarketDataBody{Symbols: []string{"bitcoin"}, Type: "crypto"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

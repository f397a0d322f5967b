package market

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/fintrack-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/fintrack-server/internal/logging"
	"github.com/carson-networks/fintrack-server/internal/service"
)

type MarketDataBody struct {
	Symbols []string `json:"symbols" minItems:"1" maxItems:"50" doc:"Asset identifiers, e.g. bitcoin"`
	Type    string   `json:"type" enum:"crypto,stock" doc:"Asset kind; only crypto is priced"`
}

type MarketDataInput struct {
	Body MarketDataBody
}

type MarketDataResponseBody struct {
	Prices      map[string]string `json:"prices" doc:"Price per symbol in the base currency, 0 when unknown"`
	LastUpdated string            `json:"lastUpdated"`
}

type MarketDataOutput struct {
	Body MarketDataResponseBody
}

type priceQuoter interface {
	Prices(ctx context.Context, symbols []string, kind string) (*service.MarketPrices, error)
}

// MarketDataHandler handles POST /v1/market-data.
type MarketDataHandler struct {
	MarketService priceQuoter
}

func NewMarketDataHandler(svc priceQuoter) *MarketDataHandler {
	return &MarketDataHandler{MarketService: svc}
}

func (h *MarketDataHandler) Register(api huma.API, middlewares ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "market-data",
		Method:      http.MethodPost,
		Path:        "/v1/market-data",
		Summary:     "Market data",
		Description: "Quotes crypto assets in the base currency.",
		Tags:        []string{"Market"},
		Middlewares: middlewares,
	}, h.handle)
}

func (h *MarketDataHandler) handle(ctx context.Context, input *MarketDataInput) (*MarketDataOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("marketDataMs")
	}
	result, err := h.MarketService.Prices(ctx, input.Body.Symbols, input.Body.Type)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromService(err, "failed to fetch market data")
	}

	resp := MarketDataResponseBody{
		Prices:      make(map[string]string, len(result.Prices)),
		LastUpdated: result.LastUpdated.Format(time.RFC3339),
	}
	for symbol, price := range result.Prices {
		resp.Prices[symbol] = price.String()
	}

	return &MarketDataOutput{Body: resp}, nil
}

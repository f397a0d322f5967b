package currency

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/fintrack-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/fintrack-server/internal/service"
)

type ConvertBody struct {
	From   string   `json:"from" minLength:"3" maxLength:"10" doc:"Source currency code"`
	To     string   `json:"to" minLength:"3" maxLength:"10" doc:"Target currency code"`
	Amount *float64 `json:"amount,omitempty" minimum:"0" doc:"Amount to convert; the bare rate is returned without it"`
}

type ConvertInput struct {
	Body ConvertBody
}

type ConvertResponseBody struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Rate            string  `json:"rate" doc:"Units of to per unit of from"`
	Amount          *string `json:"amount,omitempty"`
	ConvertedAmount string  `json:"convertedAmount"`
	LastUpdated     string  `json:"lastUpdated" doc:"Date of the rate table"`
}

type ConvertOutput struct {
	Body ConvertResponseBody
}

type currencyConverter interface {
	Convert(ctx context.Context, from, to string, amount *decimal.Decimal) (*service.Conversion, error)
}

// ConvertHandler handles POST /v1/currency/convert.
type ConvertHandler struct {
	CurrencyService currencyConverter
}

func NewConvertHandler(svc currencyConverter) *ConvertHandler {
	return &ConvertHandler{CurrencyService: svc}
}

func (h *ConvertHandler) Register(api huma.API, middlewares ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "convert-currency",
		Method:      http.MethodPost,
		Path:        "/v1/currency/convert",
		Summary:     "Convert currency",
		Description: "Converts an amount using the latest public exchange rates.",
		Tags:        []string{"Currency"},
		Middlewares: middlewares,
	}, h.handle)
}

func (h *ConvertHandler) handle(ctx context.Context, input *ConvertInput) (*ConvertOutput, error) {
	var amount *decimal.Decimal
	if input.Body.Amount != nil {
		a := decimal.NewFromFloat(*input.Body.Amount)
		amount = &a
	}

	conversion, err := h.CurrencyService.Convert(ctx, input.Body.From, input.Body.To, amount)
	if err != nil {
		return nil, apierror.FromService(err, "failed to convert currency")
	}

	resp := ConvertResponseBody{
		From:            conversion.From,
		To:              conversion.To,
		Rate:            conversion.Rate.String(),
		ConvertedAmount: conversion.ConvertedAmount.String(),
		LastUpdated:     conversion.LastUpdated,
	}
	if conversion.Amount != nil {
		a := conversion.Amount.String()
		resp.Amount = &a
	}

	return &ConvertOutput{Body: resp}, nil
}

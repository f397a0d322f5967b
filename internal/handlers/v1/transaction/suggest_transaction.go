package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/fintrack-server/internal/service"
)

// SuggestTransactionBody is the request body for a transaction suggestion.
type SuggestTransactionBody struct {
	CategoryID string `json:"category_id" doc:"Category UUID to draw history from"`
}

// SuggestTransactionInput is the Huma input for a transaction suggestion.
type SuggestTransactionInput struct {
	Body SuggestTransactionBody
}

// SuggestTransactionResponseBody is the response body for a transaction suggestion.
type SuggestTransactionResponseBody struct {
	Merchant      string `json:"merchant" doc:"Most frequent recent merchant"`
	Notes         string `json:"notes" doc:"Common words from recent notes"`
	AverageAmount int64  `json:"averageAmount" doc:"Rounded average amount in the base currency"`
	Confidence    int    `json:"confidence" doc:"Number of transactions the suggestion is based on"`
}

// SuggestTransactionOutput is the Huma output for a transaction suggestion.
type SuggestTransactionOutput struct {
	Body SuggestTransactionResponseBody
}

type transactionSuggester interface {
	Suggest(ctx context.Context, userID, categoryID uuid.UUID) (*service.Suggestion, error)
}

// SuggestTransactionHandler handles POST /v1/transaction/suggest.
type SuggestTransactionHandler struct {
	TransactionService transactionSuggester
}

func NewSuggestTransactionHandler(svc transactionSuggester) *SuggestTransactionHandler {
	return &SuggestTransactionHandler{TransactionService: svc}
}

func (h *SuggestTransactionHandler) Register(api huma.API, middlewares ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "suggest-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/suggest",
		Summary:     "Suggest transaction",
		Description: "Suggests merchant, notes and amount from the caller's recent transactions in a category.",
		Tags:        []string{"Transactions"},
		Middlewares: middlewares,
	}, h.handle)
}

func (h *SuggestTransactionHandler) handle(ctx context.Context, input *SuggestTransactionInput) (*SuggestTransactionOutput, error) {
	categoryID, err := uuid.FromString(input.Body.CategoryID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid category_id")
	}

	suggestion, err := h.TransactionService.Suggest(ctx, auth.UserID(ctx), categoryID)
	if err != nil {
		return nil, apierror.FromService(err, "failed to suggest transaction")
	}

	return &SuggestTransactionOutput{
		Body: SuggestTransactionResponseBody{
			Merchant:      suggestion.Merchant,
			Notes:         suggestion.Notes,
			AverageAmount: suggestion.AverageAmount.IntPart(),
			Confidence:    suggestion.Confidence,
		},
	}, nil
}

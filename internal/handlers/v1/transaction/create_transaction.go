package transaction

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/fintrack-server/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
// Amount and type are checked by the service so that a missing or malformed
// value is reported as a 400 with a readable message.
type CreateTransactionBody struct {
	Amount         any      `json:"amount,omitempty" doc:"Positive amount, as a number or a decimal string"`
	Currency       string   `json:"currency,omitempty" maxLength:"10" doc:"Currency code, defaults to the base currency"`
	Type           string   `json:"type,omitempty" doc:"income, expense or savings"`
	Merchant       *string  `json:"merchant,omitempty" doc:"Trimmed and cut to 255 characters"`
	Notes          *string  `json:"notes,omitempty" doc:"Trimmed and cut to 1000 characters"`
	Description    *string  `json:"description,omitempty" doc:"Trimmed and cut to 1000 characters"`
	CategoryID     string   `json:"category_id,omitempty" doc:"Category UUID"`
	AccountID      string   `json:"account_id,omitempty" doc:"Account UUID"`
	FamilyMemberID string   `json:"family_member_id,omitempty" doc:"Family member UUID"`
	Timestamp      string   `json:"timestamp,omitempty" doc:"RFC3339 time of the transaction, defaults to now"`
	Tags           []string `json:"tags,omitempty" maxItems:"50"`
	PaymentSource  string   `json:"payment_source,omitempty" maxLength:"100"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	ForwardedFor string `header:"X-Forwarded-For"`
	RealIP       string `header:"X-Real-IP"`
	UserAgent    string `header:"User-Agent"`
	Body         CreateTransactionBody
}

// CreateTransactionResponseBody is the response body for creating a transaction.
type CreateTransactionResponseBody struct {
	Transaction Transaction `json:"transaction" doc:"The stored transaction"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponseBody
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, sub service.Submission) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API, middlewares ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Validates, converts and stores a transaction together with an audit log entry.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   middlewares,
	}, h.handle)
}

// parseCreateTransactionInput turns the request into a service submission.
// Only references and the timestamp are checked here.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.Submission, error) {
	sub := service.Submission{
		Amount:        amountText(input.Body.Amount),
		Currency:      input.Body.Currency,
		Type:          input.Body.Type,
		Merchant:      input.Body.Merchant,
		Notes:         input.Body.Notes,
		Description:   input.Body.Description,
		Tags:          input.Body.Tags,
		PaymentSource: input.Body.PaymentSource,
		ForwardedFor:  input.ForwardedFor,
		RealIP:        input.RealIP,
	}
	if input.UserAgent != "" {
		userAgent := input.UserAgent
		sub.UserAgent = &userAgent
	}

	var err error
	if sub.CategoryID, err = parseReference("category_id", input.Body.CategoryID); err != nil {
		return service.Submission{}, err
	}
	if sub.AccountID, err = parseReference("account_id", input.Body.AccountID); err != nil {
		return service.Submission{}, err
	}
	if sub.FamilyMemberID, err = parseReference("family_member_id", input.Body.FamilyMemberID); err != nil {
		return service.Submission{}, err
	}

	if input.Body.Timestamp != "" {
		timestamp, parseErr := time.Parse(time.RFC3339, input.Body.Timestamp)
		if parseErr != nil {
			return service.Submission{}, huma.NewError(http.StatusBadRequest, "invalid timestamp")
		}
		sub.Timestamp = &timestamp
	}

	return sub, nil
}

func parseReference(field, value string) (uuid.NullUUID, error) {
	if value == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.NullUUID{}, huma.NewError(http.StatusBadRequest, "invalid "+field)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// amountText renders a JSON amount as decimal text. Absent amounts become "".
func amountText(amount any) string {
	switch v := amount.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	sub, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	sub.UserID = auth.UserID(ctx)

	created, err := h.TransactionService.CreateTransaction(ctx, sub)
	if err != nil {
		return nil, apierror.FromService(err, "failed to create transaction")
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponseBody{Transaction: toTransaction(*created)},
	}, nil
}

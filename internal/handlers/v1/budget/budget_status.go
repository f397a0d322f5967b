package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/fintrack-server/internal/auth"
	"github.com/carson-networks/fintrack-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/fintrack-server/internal/logging"
	"github.com/carson-networks/fintrack-server/internal/service"
)

const dateLayout = "2006-01-02"

// BudgetStatus is the API response model for one active budget.
type BudgetStatus struct {
	BudgetID     string `json:"budgetID" doc:"Budget UUID"`
	CategoryID   string `json:"categoryID" doc:"Category UUID"`
	Category     string `json:"category" doc:"Category name, Unknown when the category is gone"`
	BudgetAmount string `json:"budgetAmount" doc:"Decimal budget amount"`
	Spent        string `json:"spent" doc:"Decimal amount spent in the base currency"`
	Percentage   string `json:"percentage" doc:"Share of the budget spent, capped at 100"`
	Status       string `json:"status" enum:"safe,warning,exceeded"`
	StartDate    string `json:"startDate" doc:"First day of the budget window"`
	EndDate      string `json:"endDate" doc:"Last day of the budget window"`
}

type BudgetStatusResponseBody struct {
	Budgets []BudgetStatus `json:"budgets"`
}

type BudgetStatusOutput struct {
	Body BudgetStatusResponseBody
}

type budgetStatusReader interface {
	Status(ctx context.Context, userID uuid.UUID) ([]service.BudgetStatus, error)
}

// StatusHandler handles GET /v1/budget/status.
type StatusHandler struct {
	BudgetService budgetStatusReader
}

func NewStatusHandler(svc budgetStatusReader) *StatusHandler {
	return &StatusHandler{BudgetService: svc}
}

func (h *StatusHandler) Register(api huma.API, middlewares ...func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "budget-status",
		Method:      http.MethodGet,
		Path:        "/v1/budget/status",
		Summary:     "Budget status",
		Description: "Reports spending against every budget whose window has not ended.",
		Tags:        []string{"Budgets"},
		Middlewares: middlewares,
	}, h.handle)
}

func (h *StatusHandler) handle(ctx context.Context, _ *struct{}) (*BudgetStatusOutput, error) {
	statuses, err := h.BudgetService.Status(ctx, auth.UserID(ctx))
	if err != nil {
		return nil, apierror.FromService(err, "failed to compute budget status")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("budgetCount", len(statuses))
	}

	resp := BudgetStatusResponseBody{Budgets: make([]BudgetStatus, len(statuses))}
	for i, s := range statuses {
		resp.Budgets[i] = BudgetStatus{
			BudgetID:     s.BudgetID.String(),
			CategoryID:   s.CategoryID.String(),
			Category:     s.Category,
			BudgetAmount: s.BudgetAmount.String(),
			Spent:        s.Spent.String(),
			Percentage:   s.Percentage.String(),
			Status:       s.Status,
			StartDate:    s.StartDate.Format(dateLayout),
			EndDate:      s.EndDate.Format(dateLayout),
		}
	}

	return &BudgetStatusOutput{Body: resp}, nil
}

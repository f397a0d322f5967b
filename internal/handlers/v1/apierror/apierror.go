// Package apierror gives every API error the same {"error": "<message>"} body.
// Importing it replaces huma.NewError, which huma also uses for its own
// request validation failures.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/fintrack-server/internal/service"
)

// Error is the body written for every failed request.
type Error struct {
	status  int
	Message string `json:"error" doc:"Human readable error message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.status
}

// New builds an Error. The first detail, when present, replaces a generic
// validation message so the caller sees which field failed.
func New(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
		for _, err := range errs {
			if err != nil {
				msg = err.Error()
				break
			}
		}
	}
	return &Error{status: status, Message: msg}
}

func init() {
	huma.NewError = New
}

// FromService maps a service error to its HTTP status. Unknown errors are
// reported with fallback so storage details do not leak.
func FromService(err error, fallback string) huma.StatusError {
	var validationErr *service.ValidationError
	var persistenceErr *service.PersistenceError
	var upstreamErr *service.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return New(http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrUnauthorized):
		return New(http.StatusUnauthorized, service.ErrUnauthorized.Error())
	case errors.As(err, &persistenceErr):
		return New(http.StatusInternalServerError, persistenceErr.Error())
	case errors.As(err, &upstreamErr):
		return New(http.StatusInternalServerError, upstreamErr.Error())
	default:
		return New(http.StatusInternalServerError, fallback)
	}
}

// Package helpers holds the JSON envelope and request helpers shared by controllers.
package helpers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"workshopsite/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeNotFound       = "not_found"
	ErrCodeInvalidContent = "invalid_content"
	ErrCodeInternalError  = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Issues lists content problems when Code is invalid_content.
	Issues []domain.Issue `json:"issues,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess writes statusCode and an APIResponse with data and a nil error.
func WriteJSONSuccess(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	render.Status(r, statusCode)
	render.JSON(w, r, APIResponse{Data: data})
}

// WriteJSONError writes statusCode and an APIResponse with nil data and the
// given error code and message.
func WriteJSONError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteDomainError maps service errors to a status code and envelope. Anything
// unrecognised is a 500 and its text is not exposed.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, APIResponse{Error: &APIError{
			Code:    ErrCodeInvalidContent,
			Message: "workshop content is invalid",
			Issues:  verr.Issues,
		}})
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, r, http.StatusNotFound, ErrCodeNotFound, "workshop not found")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	default:
		WriteJSONError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an entry in the error catalog.
type ErrorCode string

const (
	CodeMissingToken        ErrorCode = "MISSING_TOKEN"
	CodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	CodeMissingOrgID        ErrorCode = "MISSING_ORG_ID"
	CodeOrgAccessDenied     ErrorCode = "ORG_ACCESS_DENIED"
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeResourceNotFound    ErrorCode = "RESOURCE_NOT_FOUND"
	CodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeIdempotencyInFlight ErrorCode = "IDEMPOTENCY_IN_FLIGHT"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// CatalogEntry is the fixed status and message registered for an error code.
type CatalogEntry struct {
	Status  int
	Message string
}

// ErrorCatalog is the static error taxonomy. Every client-visible failure maps
// to exactly one entry; there is no other way to shape an error response.
var ErrorCatalog = map[ErrorCode]CatalogEntry{
	CodeMissingToken:        {Status: http.StatusUnauthorized, Message: "Missing authentication token"},
	CodeInvalidToken:        {Status: http.StatusUnauthorized, Message: "Invalid or expired token"},
	CodeMissingOrgID:        {Status: http.StatusBadRequest, Message: "Missing organization ID"},
	CodeOrgAccessDenied:     {Status: http.StatusForbidden, Message: "Access to organization denied"},
	CodeInvalidRequest:      {Status: http.StatusBadRequest, Message: "Invalid request"},
	CodeResourceNotFound:    {Status: http.StatusNotFound, Message: "Resource not found"},
	CodeRateLimitExceeded:   {Status: http.StatusTooManyRequests, Message: "Rate limit exceeded"},
	CodeIdempotencyInFlight: {Status: http.StatusConflict, Message: "A request with this idempotency key is already in flight"},
	CodeInternalError:       {Status: http.StatusInternalServerError, Message: "Internal server error"},
}

// Lookup returns the catalog entry for a code. Unknown codes resolve to
// INTERNAL_ERROR so a bad code can never leak an unshaped response.
func Lookup(code ErrorCode) CatalogEntry {
	if entry, ok := ErrorCatalog[code]; ok {
		return entry
	}
	return ErrorCatalog[CodeInternalError]
}

// APIError is an error carrying a catalog code and optional client-safe detail.
// Pipeline stages and handlers return it; the outermost layer renders it.
type APIError struct {
	Code   ErrorCode
	Detail interface{}
}

// NewAPIError creates an APIError for the given code.
func NewAPIError(code ErrorCode, detail interface{}) *APIError {
	return &APIError{Code: code, Detail: detail}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, Lookup(e.Code).Message)
}

// Status returns the HTTP status registered for the error's code.
func (e *APIError) Status() int {
	return Lookup(e.Code).Status
}

type errorPayload struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful response (200 OK) with the data as the body
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a successful creation response (201 Created)
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteAPIError writes the catalog response for a code with optional detail
func WriteAPIError(w http.ResponseWriter, code ErrorCode, detail interface{}) {
	entry := Lookup(code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(entry.Status)
	json.NewEncoder(w).Encode(errorBody{Error: errorPayload{
		Code:    code,
		Message: entry.Message,
		Detail:  detail,
	}})
}

// WriteError renders any error through the catalog. An *APIError keeps its
// code and detail; everything else becomes INTERNAL_ERROR with no detail, so
// internal failures never leak to a client.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		WriteAPIError(w, apiErr.Code, apiErr.Detail)
		return
	}
	WriteAPIError(w, CodeInternalError, nil)
}

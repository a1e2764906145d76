package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCatalogStatuses(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{CodeMissingToken, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusUnauthorized},
		{CodeMissingOrgID, http.StatusBadRequest},
		{CodeOrgAccessDenied, http.StatusForbidden},
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeResourceNotFound, http.StatusNotFound},
		{CodeRateLimitExceeded, http.StatusTooManyRequests},
		{CodeIdempotencyInFlight, http.StatusConflict},
		{CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, Lookup(tt.code).Status, "code %s", tt.code)
	}
}

func TestWriteAPIError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteAPIError(w, CodeRateLimitExceeded, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.Code)
	assert.Equal(t, "Rate limit exceeded", body.Error.Message)
}

func TestWriteAPIErrorWithDetail(t *testing.T) {
	w := httptest.NewRecorder()

	WriteAPIError(w, CodeInvalidRequest, map[string]string{"reason": "bad cursor"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad cursor")
}

func TestWriteAPIErrorUnknownCode(t *testing.T) {
	w := httptest.NewRecorder()

	WriteAPIError(w, ErrorCode("NO_SUCH_CODE"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteErrorMapsAPIError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, NewAPIError(CodeOrgAccessDenied, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ORG_ACCESS_DENIED")
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, errors.New("pg: connection refused on 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteSuccess(w, map[string]string{"status": "ok"})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "ok")
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteCreated(w, map[string]string{"id": "abc"})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAPIErrorError(t *testing.T) {
	err := NewAPIError(CodeMissingToken, nil)
	assert.Equal(t, "MISSING_TOKEN: Missing authentication token", err.Error())
	assert.Equal(t, http.StatusUnauthorized, err.Status())
}

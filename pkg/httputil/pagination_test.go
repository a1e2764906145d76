package httputil

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationParamsDefaults(t *testing.T) {
	params := ExtractPaginationParams(url.Values{})

	assert.Equal(t, DefaultPageLimit, params.Limit)
	assert.Equal(t, "", params.Cursor)
}

func TestExtractPaginationParamsClampsHigh(t *testing.T) {
	params := ExtractPaginationParams(url.Values{"limit": {"150"}})

	assert.Equal(t, MaxPageLimit, params.Limit)
}

func TestExtractPaginationParamsClampsLow(t *testing.T) {
	params := ExtractPaginationParams(url.Values{"limit": {"0"}})
	assert.Equal(t, MinPageLimit, params.Limit)

	params = ExtractPaginationParams(url.Values{"limit": {"-5"}})
	assert.Equal(t, MinPageLimit, params.Limit)
}

func TestExtractPaginationParamsUnparsableLimit(t *testing.T) {
	params := ExtractPaginationParams(url.Values{"limit": {"banana"}})

	assert.Equal(t, DefaultPageLimit, params.Limit)
}

func TestExtractPaginationParamsCursor(t *testing.T) {
	params := ExtractPaginationParams(url.Values{"cursor": {"abc123"}, "limit": {"25"}})

	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "abc123", params.Cursor)
}

func TestValidatePaginationParams(t *testing.T) {
	assert.NoError(t, ValidatePaginationParams(PaginationParams{Limit: 1}))
	assert.NoError(t, ValidatePaginationParams(PaginationParams{Limit: 100}))

	err := ValidatePaginationParams(PaginationParams{Limit: 150})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidRequest, apiErr.Code)

	body, ok := apiErr.Detail.(ValidationErrorBody)
	require.True(t, ok)
	assert.Equal(t, []string{"limit must be between 1 and 100"}, body.Details.Fields["limit"])
}

func TestNewPageSerialization(t *testing.T) {
	page := NewPage([]string{"a", "b"}, "next-token", 42)

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "next-token", decoded["nextCursor"])
	assert.Equal(t, float64(42), decoded["total"])
}

func TestNewPageOmitsEmptyCursor(t *testing.T) {
	page := NewPage([]string{}, "", 0)

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "nextCursor")
	assert.NotContains(t, decoded, "total")
	assert.Contains(t, decoded, "data")
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor("offset:50")

	position, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, "offset:50", position)
}

func TestDecodeCursorInvalid(t *testing.T) {
	_, err := DecodeCursor("not%%%base64")
	assert.Error(t, err)
}

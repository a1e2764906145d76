package httputil

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultPageLimit applies when a list request carries no limit parameter
	DefaultPageLimit = 50
	// MinPageLimit is the smallest page size a client may request
	MinPageLimit = 1
	// MaxPageLimit caps page sizes; the lenient extractor clamps to it
	MaxPageLimit = 100
)

// PaginationParams holds normalized list-endpoint paging parameters
type PaginationParams struct {
	Limit  int
	Cursor string
}

// Page is the response shape for a single page of a paginated listing
type Page struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"nextCursor,omitempty"`
	Total      int64       `json:"total,omitempty"`
}

// ExtractPaginationParams reads limit and cursor from query parameters.
// It is deliberately lenient: a missing or unparsable limit falls back to the
// default, out-of-range values are clamped into [1, 100], and it never rejects
// a request. Endpoints that want to reject instead use ValidatePaginationParams.
func ExtractPaginationParams(values url.Values) PaginationParams {
	params := PaginationParams{
		Limit:  DefaultPageLimit,
		Cursor: values.Get("cursor"),
	}

	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}

	if params.Limit < MinPageLimit {
		params.Limit = MinPageLimit
	}
	if params.Limit > MaxPageLimit {
		params.Limit = MaxPageLimit
	}

	return params
}

// ValidatePaginationParams is the strict counterpart to ExtractPaginationParams:
// it rejects out-of-range limits rather than silently correcting them.
func ValidatePaginationParams(params PaginationParams) error {
	if params.Limit < MinPageLimit || params.Limit > MaxPageLimit {
		verr := &ValidationError{}
		verr.Add("limit", fmt.Sprintf("limit must be between %d and %d", MinPageLimit, MaxPageLimit))
		return NewAPIError(CodeInvalidRequest, FormatValidationError(verr))
	}
	return nil
}

// NewPage shapes one page of results. Data, cursor and total pass through
// unchanged; an empty cursor or zero total is omitted from the JSON.
func NewPage(data interface{}, nextCursor string, total int64) Page {
	return Page{
		Data:       data,
		NextCursor: nextCursor,
		Total:      total,
	}
}

// EncodeCursor turns a storage position into an opaque cursor token
func EncodeCursor(position string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(position))
}

// DecodeCursor recovers the storage position from a cursor token
func DecodeCursor(cursor string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: %w", err)
	}
	return string(raw), nil
}

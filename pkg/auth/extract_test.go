package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid bearer", "Bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
		{"lowercase scheme", "bearer abc123", ""},
		{"no token after scheme", "Bearer ", ""},
		{"bare token", "abc123", ""},
		{"extra space kept in token", "Bearer  abc123", " abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/records", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractBearerToken(r))
		})
	}
}

func TestExtractOrgID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	assert.Equal(t, "", ExtractOrgID(r))

	r.Header.Set(OrgIDHeader, "org-42")
	assert.Equal(t, "org-42", ExtractOrgID(r))
}

package ratelimit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigOrdering(t *testing.T) {
	cfg := DefaultConfig()

	// Read endpoints get the most headroom, billing the least.
	assert.Greater(t, cfg.Read.MaxRequests, cfg.Write.MaxRequests)
	assert.Greater(t, cfg.Write.MaxRequests, cfg.Billing.MaxRequests)
}

func TestClassifyEndpoint(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   EndpointClass
	}{
		{http.MethodGet, "/records", ClassRead},
		{http.MethodHead, "/records", ClassRead},
		{http.MethodOptions, "/records", ClassRead},
		{http.MethodPost, "/records", ClassWrite},
		{http.MethodPut, "/records/abc", ClassWrite},
		{http.MethodDelete, "/records/abc", ClassWrite},
		{http.MethodGet, "/billing/subscription", ClassBilling},
		{http.MethodPost, "/billing/subscription", ClassBilling},
		{http.MethodGet, "/v1/billing/invoices", ClassBilling},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEndpoint(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}

func TestForEndpoint(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, cfg.Read, cfg.ForEndpoint(http.MethodGet, "/records"))
	assert.Equal(t, cfg.Write, cfg.ForEndpoint(http.MethodPost, "/records"))
	assert.Equal(t, cfg.Billing, cfg.ForEndpoint(http.MethodGet, "/billing/subscription"))
}

package auth

import (
	"net/http"
	"strings"
)

const (
	// bearerPrefix is the only accepted Authorization scheme: case-sensitive,
	// exactly one space before the token.
	bearerPrefix = "Bearer "

	// OrgIDHeader carries the tenant identifier on every request
	OrgIDHeader = "X-Org-ID"
)

// ExtractBearerToken returns the bearer token from the Authorization header,
// or "" when the header is absent or uses any other scheme. It never errors.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return ""
	}
	return token
}

// ExtractOrgID returns the tenant identifier from the X-Org-ID header,
// or "" when absent.
func ExtractOrgID(r *http.Request) string {
	return r.Header.Get(OrgIDHeader)
}

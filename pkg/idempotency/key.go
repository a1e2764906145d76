package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	// KeyHeader is the client-supplied idempotency key header
	KeyHeader = "Idempotency-Key"

	// keyPrefix namespaces server-derived keys
	keyPrefix = "idem_"
)

// ExtractKey returns the client-supplied idempotency key, or "" when absent
func ExtractKey(r *http.Request) string {
	return r.Header.Get(KeyHeader)
}

// GenerateKey derives an idempotency key from the request itself. It is pure
// and deterministic: identical inputs yield the identical key across processes
// and time, so retries deduplicate even when the client sent no key.
func GenerateKey(method, path, orgID, userID string, body []byte) string {
	h := sha256.New()
	// Newline-joined fields; none of the identifiers may contain newlines,
	// so the canonical form is unambiguous.
	h.Write([]byte(strings.Join([]string{method, path, orgID, userID}, "\n")))
	h.Write([]byte("\n"))
	h.Write(body)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the request content stored alongside a record, letting a
// claimant detect a key reused with a different request body.
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte("\n"))
	h.Write([]byte(path))
	h.Write([]byte("\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

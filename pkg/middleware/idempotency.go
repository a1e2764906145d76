package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/contextkeys"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/idempotency"
	"github.com/platinummonkey/gatehouse/pkg/observability"
)

// ReplayedHeader marks responses served from a stored idempotency record
const ReplayedHeader = "X-Idempotency-Replayed"

// Idempotency deduplicates mutating requests by idempotency key. It requires
// the auth context and must run after Auth and RateLimit.
type Idempotency struct {
	store   idempotency.Store
	ttl     time.Duration
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewIdempotency creates the idempotency middleware. Metrics may be nil.
func NewIdempotency(store idempotency.Store, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Idempotency {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Idempotency{store: store, ttl: ttl, logger: logger, metrics: metrics}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Handler wraps an HTTP handler with idempotency deduplication. Non-mutating
// methods pass straight through.
func (m *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		authCtx := GetAuthContext(r)
		if authCtx == nil {
			httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.WriteAPIError(w, httputil.CodeInvalidRequest, nil)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		clientKey := idempotency.ExtractKey(r)
		key := clientKey
		if key == "" {
			key = idempotency.GenerateKey(r.Method, r.URL.Path, authCtx.OrgID, authCtx.User.ID, body)
		}
		fingerprint := idempotency.Fingerprint(r.Method, r.URL.Path, body)

		result, err := m.store.TryClaim(r.Context(), key, fingerprint, m.ttl)
		if err != nil {
			// Unlike the rate limiter this gate fails closed: executing a
			// mutation without dedup protection risks double side effects.
			m.logger.WithError(err).Error("idempotency claim failed")
			httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
			return
		}

		if !result.Claimed {
			m.serveExisting(w, r, clientKey, fingerprint, result.Existing)
			return
		}

		ctx := contextkeys.WithIdempotencyKey(r.Context(), key)
		rec := &recordingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		// Server errors are not stored: the claim lapses via TTL and the
		// client may retry the operation.
		if rec.statusCode >= http.StatusInternalServerError {
			return
		}

		stored := idempotency.StoredResponse{
			StatusCode: rec.statusCode,
			Body:       rec.body.Bytes(),
		}
		if err := m.store.Complete(r.Context(), key, stored); err != nil {
			m.logger.WithError(err).Warn("failed to store idempotent response")
		}
	})
}

func (m *Idempotency) serveExisting(w http.ResponseWriter, r *http.Request, clientKey, fingerprint string, existing *idempotency.Record) {
	if existing == nil {
		// The competing record expired between claim and read; the client
		// retry will claim cleanly.
		httputil.WriteAPIError(w, httputil.CodeIdempotencyInFlight, nil)
		return
	}

	// A client-supplied key reused with different request content is a client
	// bug, not a replay. Derived keys hash the body so they cannot mismatch.
	if clientKey != "" && existing.Fingerprint != fingerprint {
		httputil.WriteAPIError(w, httputil.CodeInvalidRequest, map[string]string{
			"reason": "idempotency key was already used with a different request",
		})
		return
	}

	if existing.Status == idempotency.StatusComplete && existing.Response != nil {
		if m.metrics != nil {
			m.metrics.IdempotentReplayTotal.WithLabelValues(r.Method).Inc()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(ReplayedHeader, "true")
		w.WriteHeader(existing.Response.StatusCode)
		w.Write(existing.Response.Body)
		return
	}

	if m.metrics != nil {
		m.metrics.IdempotencyConflicts.Inc()
	}
	httputil.WriteAPIError(w, httputil.CodeIdempotencyInFlight, nil)
}

// recordingResponseWriter writes through to the client while buffering the
// response for storage.
type recordingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	written    bool
}

func (rw *recordingResponseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingResponseWriter) Write(b []byte) (int, error) {
	rw.written = true
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

package middleware

import (
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/ratelimit"
)

// RateLimit gates requests on per-tenant, per-endpoint-class counters.
// It requires the auth context and must run after Auth.
type RateLimit struct {
	limiter *ratelimit.Limiter
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewRateLimit creates the rate-limit middleware. Metrics may be nil.
func NewRateLimit(limiter *ratelimit.Limiter, logger *observability.Logger, metrics *observability.Metrics) *RateLimit {
	return &RateLimit{limiter: limiter, logger: logger, metrics: metrics}
}

// Handler wraps an HTTP handler with rate limiting
func (m *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx := GetAuthContext(r)
		if authCtx == nil {
			// Auth did not run; refusing to skip the gate.
			httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
			return
		}

		info, err := m.limiter.Check(r.Context(), r.Method, r.URL.Path, authCtx.OrgID)
		if err != nil {
			// Counter store unreachable: fail open rather than take the API
			// down with it. The request is served without limit headers.
			m.logger.WithError(err).Warn("rate limit check failed, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		info.SetHeaders(w)

		if info.Limited() {
			if m.metrics != nil {
				class := ratelimit.ClassifyEndpoint(r.Method, r.URL.Path)
				m.metrics.RateLimitedTotal.WithLabelValues(string(class)).Inc()
			}
			httputil.WriteAPIError(w, httputil.CodeRateLimitExceeded, map[string]interface{}{
				"retryAfter": info.RetryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/contextkeys"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/observability"
)

// Auth resolves each request into a tenant-scoped auth context and rejects
// requests that cannot authenticate. It must be the first pipeline stage.
type Auth struct {
	resolver *auth.Resolver
	metrics  *observability.Metrics
}

// NewAuth creates the authentication middleware. Metrics may be nil.
func NewAuth(resolver *auth.Resolver, metrics *observability.Metrics) *Auth {
	return &Auth{resolver: resolver, metrics: metrics}
}

// Handler wraps an HTTP handler with authentication
func (m *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := m.resolver.Authenticate(r.Context(), r)
		if err != nil {
			if m.metrics != nil {
				var apiErr *httputil.APIError
				if errors.As(err, &apiErr) {
					m.metrics.AuthFailuresTotal.WithLabelValues(string(apiErr.Code)).Inc()
				}
			}
			httputil.WriteError(w, err)
			return
		}

		if actor, ok := r.Context().Value(contextkeys.AuditActorKey).(*audit.Actor); ok {
			actor.UserID = authCtx.User.ID
			actor.OrgID = authCtx.OrgID
		}

		ctx := contextkeys.WithAuth(r.Context(), authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAuthContext extracts the auth context from a request. Returns nil when
// the auth middleware has not run.
func GetAuthContext(r *http.Request) *auth.Context {
	value := r.Context().Value(contextkeys.AuthKey)
	if value == nil {
		return nil
	}
	authCtx, ok := value.(*auth.Context)
	if !ok {
		return nil
	}
	return authCtx
}

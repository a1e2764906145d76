package audit

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/contextkeys"
	"github.com/platinummonkey/gatehouse/pkg/observability"
)

// Actor is the mutable identity holder placed in the request context before
// the pipeline runs. The auth stage fills it in once the request
// authenticates; requests rejected earlier leave it empty.
type Actor struct {
	UserID string
	OrgID  string
}

// Middleware records an audit event per request. It runs outside the auth
// gate so denied and rate-limited requests appear in the trail; actor fields
// are filled in by the auth stage through the context-held Actor.
type Middleware struct {
	recorder Recorder
	logger   *observability.Logger

	// recordAll records reads too; otherwise only mutations, errors and
	// billing-sensitive paths are kept.
	recordAll bool
}

// NewMiddleware creates the audit middleware
func NewMiddleware(recorder Recorder, logger *observability.Logger, recordAll bool) *Middleware {
	return &Middleware{recorder: recorder, logger: logger, recordAll: recordAll}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// Handler wraps an HTTP handler with audit recording
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		actor := &Actor{}
		ctx := contextkeys.WithAuditActor(r.Context(), actor)
		next.ServeHTTP(rw, r.WithContext(ctx))

		if !m.recordAll && !m.shouldRecord(r, rw.statusCode) {
			return
		}

		orgID := actor.OrgID
		if orgID == "" {
			orgID = r.Header.Get(auth.OrgIDHeader)
		}
		event := &Event{
			ID:         uuid.NewString(),
			Timestamp:  start.UTC(),
			RequestID:  contextkeys.GetRequestID(r.Context()),
			OrgID:      orgID,
			UserID:     actor.UserID,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rw.statusCode,
			Outcome:    OutcomeForStatus(rw.statusCode),
			DurationMS: time.Since(start).Milliseconds(),
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
			Replayed:   w.Header().Get("X-Idempotency-Replayed") == "true",
		}

		if err := m.recorder.Record(r.Context(), event); err != nil {
			// The trail is best effort; the response already went out.
			m.logger.WithError(err).Warn("failed to record audit event")
		}
	})
}

func (m *Middleware) shouldRecord(r *http.Request, status int) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
		return true
	}
	if status >= 400 {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/billing")
}

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/idempotency"
	"github.com/platinummonkey/gatehouse/pkg/middleware"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/ratelimit"
)

// Dependencies are the collaborators the server is wired with, constructed
// once at process start and passed in explicitly.
type Dependencies struct {
	Resolver         *auth.Resolver
	Limiter          *ratelimit.Limiter
	IdempotencyStore idempotency.Store
	IdempotencyTTL   time.Duration
	Logger           *observability.Logger
	Metrics          *observability.Metrics
	MaxBodyBytes     int64

	// AuditRecorder receives the audit trail; nil disables auditing
	AuditRecorder audit.Recorder
}

// Server is the reference API server fronted by the request pipeline
type Server struct {
	handler http.Handler
	records *RecordStore
	logger  *observability.Logger
}

// NewServer builds the server with the pipeline assembled in its required
// order: request plumbing first, then Auth -> RateLimit -> Idempotency, then
// the routed handlers.
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		records: NewRecordStore(),
		logger:  deps.Logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/records", s.listRecords).Methods(http.MethodGet)
	router.HandleFunc("/records", s.createRecord).Methods(http.MethodPost)
	router.HandleFunc("/records/{id}", s.getRecord).Methods(http.MethodGet)
	router.HandleFunc("/billing/subscription", s.getSubscription).Methods(http.MethodGet)

	authMW := middleware.NewAuth(deps.Resolver, deps.Metrics)
	rateLimitMW := middleware.NewRateLimit(deps.Limiter, deps.Logger, deps.Metrics)
	idempotencyMW := middleware.NewIdempotency(deps.IdempotencyStore, deps.IdempotencyTTL, deps.Logger, deps.Metrics)

	stages := []func(http.Handler) http.Handler{
		httputil.RequestID,
		httputil.RequestLogging(deps.Logger),
		httputil.Recovery(deps.Logger),
	}
	if deps.AuditRecorder != nil {
		auditMW := audit.NewMiddleware(deps.AuditRecorder, deps.Logger, false)
		stages = append(stages, auditMW.Handler)
	}
	stages = append(stages,
		httputil.MaxBytes(deps.MaxBodyBytes),
		authMW.Handler,
		rateLimitMW.Handler,
		idempotencyMW.Handler,
	)
	pipeline := httputil.Chain(stages...)

	handler := pipeline(router)
	if deps.Metrics != nil {
		handler = deps.Metrics.InstrumentHandler(handler)
	}
	s.handler = handler

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

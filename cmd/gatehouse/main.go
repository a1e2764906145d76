package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/platinummonkey/gatehouse/pkg/api"
	"github.com/platinummonkey/gatehouse/pkg/audit"
	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/config"
	"github.com/platinummonkey/gatehouse/pkg/idempotency"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/ratelimit"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		log.WithField("addr", cfg.Redis.URL).Info("using redis-backed stores")
	} else {
		log.Info("no redis configured, using in-memory stores")
	}

	// Shared-state stores: Redis when configured, in-process otherwise.
	var counterStore ratelimit.CounterStore
	var idemStore idempotency.Store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if redisClient != nil {
		counterStore = ratelimit.NewRedisCounterStore(redisClient, "ratelimit")
		idemStore = idempotency.NewRedisStore(redisClient, "idempotency")
	} else {
		memCounters := ratelimit.NewMemoryCounterStore()
		memCounters.StartCleanup(ctx, cfg.RateLimit.Read.Window)
		counterStore = memCounters

		memIdem := idempotency.NewMemoryStore()
		memIdem.StartCleanup(ctx, cfg.Idempotency.TTL)
		idemStore = memIdem
	}

	resolver := buildResolver(cfg)
	if cfg.Auth.OfflineMode {
		log.Warn("offline mode enabled: identity provider bypassed with mock identities")
	}

	var auditRecorder audit.Recorder
	if cfg.Audit.LogPath != "" {
		fileRecorder, err := audit.NewFileRecorder(cfg.Audit.LogPath)
		if err != nil {
			log.WithError(err).Fatal("failed to open audit log")
		}
		auditRecorder = fileRecorder
		log.WithField("path", cfg.Audit.LogPath).Info("audit trail enabled")
	}

	server := api.NewServer(api.Dependencies{
		Resolver:         resolver,
		Limiter:          ratelimit.NewLimiter(counterStore, cfg.RateLimit),
		IdempotencyStore: idemStore,
		IdempotencyTTL:   cfg.Idempotency.TTL,
		Logger:           logger,
		Metrics:          metrics,
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
		AuditRecorder:    auditRecorder,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthServer := newHealthServer(cfg, redisClient, metrics)

	go func() {
		log.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("health server error")
		}
	}()

	go func() {
		log.WithField("addr", httpServer.Addr).Info("gateway listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	if auditRecorder != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return auditRecorder.Close()
		})
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}

	if err := shutdown.WaitForShutdown(); err != nil {
		log.WithError(err).Error("shutdown error")
		os.Exit(1)
	}
}

// buildResolver wires the auth resolver. Online mode uses static token and
// membership fixtures loaded from the environment; a real deployment swaps in
// its identity provider and membership store here.
func buildResolver(cfg *config.Config) *auth.Resolver {
	if cfg.Auth.OfflineMode {
		return auth.NewResolver(nil, nil, true)
	}

	provider := auth.NewStaticIdentityProvider()
	members := auth.NewStaticMembershipStore()

	// GATEHOUSE_STATIC_TOKENS: "token=userID:email,token2=userID2:email2"
	for _, entry := range splitList(os.Getenv("GATEHOUSE_STATIC_TOKENS")) {
		token, identity, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		userID, email, ok := strings.Cut(identity, ":")
		if !ok {
			continue
		}
		provider.AddToken(token, auth.Identity{ID: userID, Email: email})
	}

	// GATEHOUSE_STATIC_MEMBERS: "userID:orgID,userID2:orgID2"
	for _, entry := range splitList(os.Getenv("GATEHOUSE_STATIC_MEMBERS")) {
		userID, orgID, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		members.AddMember(userID, orgID)
	}

	return auth.NewResolver(provider, members, false)
}

func newHealthServer(cfg *config.Config, redisClient *redis.Client, metrics *observability.Metrics) *http.Server {
	health := observability.NewHealthChecker(redisClient)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	healthMux.Handle("/metrics", metrics.Handler())

	return &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

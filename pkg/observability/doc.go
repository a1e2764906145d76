// Package observability provides structured logging, Prometheus metrics for
// the request pipeline, health checks, and graceful shutdown.
//
// Logging uses a thin wrapper over slog with a JSON handler so log lines are
// machine-parseable. Metrics cover the pipeline's decision points: requests
// admitted, auth failures, rate-limited requests, and idempotent replays.
package observability

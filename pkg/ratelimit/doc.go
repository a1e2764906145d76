// Package ratelimit enforces per-tenant, per-endpoint-class request ceilings
// using fixed time windows.
//
// Counters live behind the CounterStore interface: an in-memory store for
// single-instance deployments and tests, and a Redis store for multi-instance
// deployments. The limiter depends only on the interface.
//
// Fixed windows were chosen over sliding windows or token buckets: simpler
// shared state, at the cost of burst admission right at window boundaries.
// That tradeoff is acceptable for a dev-facing API gateway; this is not a
// hardened edge limiter.
package ratelimit

// Package middleware assembles the request pipeline every API call passes
// through before reaching business logic.
//
// # CRITICAL: Middleware Ordering Requirements
//
// Stages run strictly in the order Auth -> RateLimit -> Idempotency ->
// validation -> handler. The ordering is fail-fast on purpose: traffic that
// cannot authenticate must never consume rate-limit budget, and traffic over
// its rate ceiling must never consume idempotency storage.
//
// Example (correct):
//
//	handler := httputil.Chain(
//	    authMW.Handler,        // 1. Resolves tenant-scoped auth context
//	    rateLimitMW.Handler,   // 2. Reads org ID from auth context
//	    idempotencyMW.Handler, // 3. Reads org and user ID from auth context
//	)(routeHandler)
//
// Example (WRONG - will not work):
//
//	handler := httputil.Chain(
//	    rateLimitMW.Handler,   // FAILS: no auth context yet
//	    authMW.Handler,
//	)(routeHandler)
//
// RateLimit and Idempotency treat a missing auth context as an internal error
// rather than skipping their checks: a silently skipped gate downstream of a
// wiring mistake would be a security hole.
package middleware

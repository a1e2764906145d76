// Package audit records a trail of requests handled by the gateway.
//
// The middleware sits outside the auth gate so every disposition shows up:
// denied tokens, rate-limited bursts, replayed idempotent mutations and
// ordinary writes. Successful reads are skipped unless the middleware is
// configured to record everything.
//
// Recorders are pluggable. FileRecorder appends JSON lines for production;
// MemoryRecorder backs tests; NopRecorder disables the trail.
package audit

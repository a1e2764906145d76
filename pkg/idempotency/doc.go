// Package idempotency deduplicates mutating requests by key so a retried
// request executes its side effect at most once.
//
// Keys come from the client's Idempotency-Key header, or are derived
// deterministically from the request itself when the client forgot one.
// Records live behind the Store interface with in-memory and Redis
// implementations; claims are atomic (at-most-one-claimant) and carry a TTL so
// an abandoned in-flight claim lapses instead of blocking retries forever.
//
// A second request arriving while the first claimant is still in flight is
// rejected with 409 IDEMPOTENCY_IN_FLIGHT and expected to retry. Blocking the
// second caller until the first completes was the alternative; rejection was
// chosen because it holds no server resources for slow claimants.
package idempotency

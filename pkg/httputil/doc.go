// Package httputil provides the HTTP surface shared by every pipeline stage:
// the canonical error catalog and response shaping, request parsing, schema
// validation, cursor pagination, and generic middleware (request IDs, logging,
// panic recovery).
//
// # Error responses
//
// Every failure a client can see is an entry in the error catalog. Handlers and
// middleware return *APIError (or wrap one) and the outermost layer renders it:
//
//	httputil.WriteAPIError(w, httputil.CodeRateLimitExceeded, nil)
//
// produces
//
//	{"error":{"code":"RATE_LIMIT_EXCEEDED","message":"Rate limit exceeded"}}
//
// with the status registered for the code. Raw errors never reach a client;
// anything that is not an *APIError renders as INTERNAL_ERROR with no detail.
//
// # Validation
//
// Schemas are maps of field name to FieldRule. Validation collects every
// violation before failing, so a response reports all bad fields at once
// grouped under details.fields.
//
// # Pagination
//
// ExtractPaginationParams is lenient (defaults and clamps, never rejects);
// ValidatePaginationParams is the strict variant for endpoints that prefer
// rejecting out-of-range input over silently correcting it.
package httputil

// Package api provides the reference HTTP server: the full request pipeline
// (auth, rate limiting, idempotency) in front of a small tenant-scoped
// records resource and a billing read endpoint.
//
// The handlers here are deliberately thin. They exist to demonstrate the
// pipeline contract downstream handlers see: an auth context in the request
// context, validated input, and pagination helpers for list responses.
package api

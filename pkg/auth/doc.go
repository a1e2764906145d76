// Package auth resolves inbound requests into an authenticated, tenant-scoped
// context.
//
// The resolver consumes two collaborator interfaces: an IdentityProvider that
// verifies bearer tokens, and a MembershipStore that authorizes a user's
// access to an organization. Both are injected at construction; the package
// never reaches for a global client.
//
// Failure order is fixed and fail-fast: a missing token is reported before an
// invalid one, an invalid token before a missing org header, and a missing org
// header before a membership denial. Nothing downstream of auth runs without a
// resolved tenant.
//
// Offline mode bypasses the identity provider with a fixed synthetic identity.
// It is controlled solely by process configuration and can never be triggered
// by request input.
package auth

package auth

import "context"

// Identity is a verified user identity returned by an IdentityProvider
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Context holds the authenticated, tenant-scoped state for one request.
// It lives for the request only and is never persisted.
type Context struct {
	User    Identity `json:"user"`
	OrgID   string   `json:"orgId"`
	Offline bool     `json:"isOffline"`
}

// IdentityProvider verifies a bearer token against an external identity
// backend and yields the user it belongs to.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// MembershipStore answers whether a user belongs to an organization
type MembershipStore interface {
	IsMember(ctx context.Context, userID, orgID string) (bool, error)
}

package auth

import (
	"context"
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/httputil"
)

const (
	// MockUserID is the fixed synthetic user used in offline mode
	MockUserID = "mock-user-123"
	// MockUserEmail is the fixed synthetic email used in offline mode
	MockUserEmail = "user@example.com"
)

// Resolver turns a bearer token and tenant header into an authenticated
// Context, or fails with a catalog error.
type Resolver struct {
	identity IdentityProvider
	members  MembershipStore
	offline  bool
}

// NewResolver creates a resolver. With offline true the identity provider and
// membership store are bypassed entirely and every request resolves to the
// fixed mock identity; both collaborators may then be nil.
func NewResolver(identity IdentityProvider, members MembershipStore, offline bool) *Resolver {
	return &Resolver{
		identity: identity,
		members:  members,
		offline:  offline,
	}
}

// OfflineMode reports whether the resolver bypasses the identity provider
func (rv *Resolver) OfflineMode() bool {
	return rv.offline
}

// Authenticate resolves the request into a tenant-scoped Context.
// Failure order is fixed: MISSING_TOKEN, INVALID_TOKEN, MISSING_ORG_ID,
// ORG_ACCESS_DENIED.
func (rv *Resolver) Authenticate(ctx context.Context, r *http.Request) (*Context, error) {
	token := ExtractBearerToken(r)
	if token == "" {
		return nil, httputil.NewAPIError(httputil.CodeMissingToken, nil)
	}

	var identity Identity
	if !rv.offline {
		verified, err := rv.identity.Verify(ctx, token)
		if err != nil {
			return nil, httputil.NewAPIError(httputil.CodeInvalidToken, nil)
		}
		identity = verified
	}

	orgID := ExtractOrgID(r)
	if orgID == "" {
		return nil, httputil.NewAPIError(httputil.CodeMissingOrgID, nil)
	}

	if rv.offline {
		return MockContext(orgID), nil
	}

	member, err := rv.members.IsMember(ctx, identity.ID, orgID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, httputil.NewAPIError(httputil.CodeOrgAccessDenied, nil)
	}

	return &Context{User: identity, OrgID: orgID}, nil
}

// MockContext returns the deterministic offline-mode fixture: a fixed
// synthetic user bound to the requested org.
func MockContext(orgID string) *Context {
	return &Context{
		User:    Identity{ID: MockUserID, Email: MockUserEmail},
		OrgID:   orgID,
		Offline: true,
	}
}

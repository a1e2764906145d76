package auth

import (
	"context"
	"fmt"
	"sync"
)

// StaticIdentityProvider is an in-memory IdentityProvider for tests and
// single-instance deployments that manage tokens out of band.
type StaticIdentityProvider struct {
	mu     sync.RWMutex
	tokens map[string]Identity
}

// NewStaticIdentityProvider creates an empty static provider
func NewStaticIdentityProvider() *StaticIdentityProvider {
	return &StaticIdentityProvider{tokens: make(map[string]Identity)}
}

// AddToken registers a token for an identity
func (p *StaticIdentityProvider) AddToken(token string, identity Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[token] = identity
}

// Verify implements IdentityProvider
func (p *StaticIdentityProvider) Verify(_ context.Context, token string) (Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	identity, ok := p.tokens[token]
	if !ok {
		return Identity{}, fmt.Errorf("unknown token")
	}
	return identity, nil
}

// StaticMembershipStore is an in-memory MembershipStore
type StaticMembershipStore struct {
	mu      sync.RWMutex
	members map[string]map[string]bool // userID -> orgID set
}

// NewStaticMembershipStore creates an empty membership store
func NewStaticMembershipStore() *StaticMembershipStore {
	return &StaticMembershipStore{members: make(map[string]map[string]bool)}
}

// AddMember records that a user belongs to an org
func (s *StaticMembershipStore) AddMember(userID, orgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[userID] == nil {
		s.members[userID] = make(map[string]bool)
	}
	s.members[userID][orgID] = true
}

// IsMember implements MembershipStore
func (s *StaticMembershipStore) IsMember(_ context.Context, userID, orgID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members[userID][orgID], nil
}

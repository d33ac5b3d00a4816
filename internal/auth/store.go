package auth

import (
	"context"
	"sync"

	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/sentinel"
)

// CredentialStore persists party credentials.
type CredentialStore interface {
	// Get fetches a credential. sentinel.ErrNotFound when absent.
	Get(ctx context.Context, partyID id.PartyID) (*Credential, error)

	// Put inserts or replaces a credential.
	Put(ctx context.Context, cred *Credential) error
}

// MemoryStore is an in-memory credential store for tests and single-node
// development.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[id.PartyID]Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[id.PartyID]Credential)}
}

func (s *MemoryStore) Get(_ context.Context, partyID id.PartyID) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[partyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &cred, nil
}

func (s *MemoryStore) Put(_ context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.PartyID] = *cred
	return nil
}

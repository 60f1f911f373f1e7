package store

import (
	"context"
	"sync"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
)

// MemoryStore is an in-memory Store for testing and ephemeral servers.
type MemoryStore struct {
	mu         sync.RWMutex
	assertions map[string]*credential.Credential
	lists      map[string]*statuslist.Credential
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assertions: make(map[string]*credential.Credential),
		lists:      make(map[string]*statuslist.Credential),
	}
}

func listKey(issuer string, purpose statuslist.Purpose) string {
	return issuer + "\x00" + string(purpose)
}

// PutAssertion persists an issued credential.
func (s *MemoryStore) PutAssertion(_ context.Context, cred *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *cred
	s.assertions[cred.ID] = &clone
	return nil
}

// Assertion loads an issued credential by id, or (nil, nil) when
// unknown.
func (s *MemoryStore) Assertion(_ context.Context, id string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.assertions[id]
	if !ok {
		return nil, nil
	}
	clone := *cred
	return &clone, nil
}

// Assertions lists every issued credential.
func (s *MemoryStore) Assertions(_ context.Context) ([]*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds := make([]*credential.Credential, 0, len(s.assertions))
	for _, cred := range s.assertions {
		clone := *cred
		creds = append(creds, &clone)
	}
	return creds, nil
}

// StatusList loads a status list credential, or (nil, nil) when none
// exists for the issuer and purpose.
func (s *MemoryStore) StatusList(_ context.Context, issuer string, purpose statuslist.Purpose) (*statuslist.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.lists[listKey(issuer, purpose)]
	if !ok {
		return nil, nil
	}
	clone := *cred
	return &clone, nil
}

// PutStatusList persists a status list credential.
func (s *MemoryStore) PutStatusList(_ context.Context, cred *statuslist.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *cred
	s.lists[listKey(cred.Issuer, statuslist.Purpose(cred.CredentialSubject.StatusPurpose))] = &clone
	return nil
}

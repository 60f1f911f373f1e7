package keys

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Provider for testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*keyRecord
}

// NewMemoryStore creates an empty in-memory signing key store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*keyRecord)}
}

// Put stores a new signing key, rotating any existing active key into
// the history.
func (s *MemoryStore) Put(key *SigningKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key.IssuerID]
	if !ok {
		record = &keyRecord{}
		s.records[key.IssuerID] = record
	}
	if record.Active != nil {
		record.Previous = append([]*SigningKey{record.Active}, record.Previous...)
	}
	record.Active = key
	return nil
}

// SigningKeyFor returns the issuer's active signing key, or (nil, nil)
// when the issuer has no key.
func (s *MemoryStore) SigningKeyFor(_ context.Context, issuerID string) (*SigningKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[issuerID]
	if !ok {
		return nil, nil
	}
	return record.Active, nil
}

// AllKeysFor returns the active key followed by all rotated
// predecessors.
func (s *MemoryStore) AllKeysFor(_ context.Context, issuerID string) ([]*SigningKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[issuerID]
	if !ok {
		return nil, nil
	}

	all := make([]*SigningKey, 0, 1+len(record.Previous))
	if record.Active != nil {
		all = append(all, record.Active)
	}
	return append(all, record.Previous...), nil
}

package keys

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// keyRecord is the on-disk format: the active key plus every rotated
// predecessor, newest first.
type keyRecord struct {
	Active   *SigningKey   `json:"active"`
	Previous []*SigningKey `json:"previous,omitempty"`
}

// FileStore implements Provider over one JSON file per issuer.
// Default location: ~/.badgecraft/keys/
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// DefaultKeysDir returns the default signing key directory.
func DefaultKeysDir() string {
	if envPath := os.Getenv("BADGECRAFT_KEYS_PATH"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".badgecraft/keys"
	}
	return filepath.Join(home, ".badgecraft", "keys")
}

// NewFileStore creates a file-based signing key store. An empty dir
// selects the default location.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultKeysDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keys directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(issuerID string) string {
	return filepath.Join(s.dir, sanitizeFilename(issuerID)+".json")
}

// Put stores a new signing key for its issuer. An existing active key
// is rotated into the history, never overwritten.
func (s *FileStore) Put(key *SigningKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(key.IssuerID)
	if err != nil {
		return err
	}
	if record == nil {
		record = &keyRecord{}
	}
	if record.Active != nil {
		record.Previous = append([]*SigningKey{record.Active}, record.Previous...)
	}
	record.Active = key

	return s.save(key.IssuerID, record)
}

// SigningKeyFor returns the issuer's active signing key, or (nil, nil)
// when the issuer has no key.
func (s *FileStore) SigningKeyFor(_ context.Context, issuerID string) (*SigningKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.load(issuerID)
	if err != nil || record == nil {
		return nil, err
	}
	return record.Active, nil
}

// AllKeysFor returns the active key followed by all rotated
// predecessors, for verifying badges signed before a rotation. Returns
// (nil, nil) when the issuer has no keys.
func (s *FileStore) AllKeysFor(_ context.Context, issuerID string) ([]*SigningKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.load(issuerID)
	if err != nil || record == nil {
		return nil, err
	}

	all := make([]*SigningKey, 0, 1+len(record.Previous))
	if record.Active != nil {
		all = append(all, record.Active)
	}
	return append(all, record.Previous...), nil
}

func (s *FileStore) load(issuerID string) (*keyRecord, error) {
	data, err := os.ReadFile(s.path(issuerID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key record: %w", err)
	}

	var record keyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse key record: %w", err)
	}
	return &record, nil
}

func (s *FileStore) save(issuerID string, record *keyRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key record: %w", err)
	}
	if err := os.WriteFile(s.path(issuerID), data, 0600); err != nil {
		return fmt.Errorf("failed to write key record: %w", err)
	}
	return nil
}

// sanitizeFilename converts an issuer id to a safe filename.
func sanitizeFilename(id string) string {
	safe := make([]byte, 0, len(id))
	for _, c := range []byte(id) {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			safe = append(safe, '_')
		default:
			safe = append(safe, c)
		}
	}
	return string(safe)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
)

// FileStore implements Store using JSON files.
// Layout: <dir>/assertions/<id>.json and <dir>/status/<issuer>.<purpose>.json
// Default location: ~/.badgecraft/store/
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// DefaultStoreDir returns the default store directory.
func DefaultStoreDir() string {
	if envPath := os.Getenv("BADGECRAFT_STORE_PATH"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".badgecraft/store"
	}
	return filepath.Join(home, ".badgecraft", "store")
}

// NewFileStore creates a file-based store. An empty dir selects the
// default location.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultStoreDir()
	}
	for _, sub := range []string{"assertions", "status"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) assertionPath(id string) string {
	return filepath.Join(s.dir, "assertions", sanitizeFilename(id)+".json")
}

func (s *FileStore) statusPath(issuer string, purpose statuslist.Purpose) string {
	return filepath.Join(s.dir, "status", sanitizeFilename(issuer)+"."+string(purpose)+".json")
}

// PutAssertion persists an issued credential.
func (s *FileStore) PutAssertion(_ context.Context, cred *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.assertionPath(cred.ID), cred)
}

// Assertion loads an issued credential by id, or (nil, nil) when
// unknown.
func (s *FileStore) Assertion(_ context.Context, id string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cred credential.Credential
	found, err := readJSON(s.assertionPath(id), &cred)
	if err != nil || !found {
		return nil, err
	}
	return &cred, nil
}

// Assertions lists every issued credential.
func (s *FileStore) Assertions(_ context.Context) ([]*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, "assertions"))
	if err != nil {
		return nil, fmt.Errorf("failed to list assertions: %w", err)
	}

	var creds []*credential.Credential
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		var cred credential.Credential
		found, err := readJSON(filepath.Join(s.dir, "assertions", entry.Name()), &cred)
		if err != nil {
			return nil, err
		}
		if found {
			creds = append(creds, &cred)
		}
	}
	return creds, nil
}

// StatusList loads a status list credential, or (nil, nil) when none
// exists for the issuer and purpose.
func (s *FileStore) StatusList(_ context.Context, issuer string, purpose statuslist.Purpose) (*statuslist.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cred statuslist.Credential
	found, err := readJSON(s.statusPath(issuer, purpose), &cred)
	if err != nil || !found {
		return nil, err
	}
	return &cred, nil
}

// PutStatusList persists a status list credential.
func (s *FileStore) PutStatusList(_ context.Context, cred *statuslist.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	purpose := statuslist.Purpose(cred.CredentialSubject.StatusPurpose)
	return writeJSON(s.statusPath(cred.Issuer, purpose), cred)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse record: %w", err)
	}
	return true, nil
}

// sanitizeFilename converts an id to a safe filename.
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

package statuslist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrCacheCorrupt is returned when the on-disk cache cannot be parsed.
var ErrCacheCorrupt = errors.New("status list cache is corrupt")

// DefaultStaleThreshold is the age after which a cached status list
// should be re-fetched before trusting a "not revoked" answer.
const DefaultStaleThreshold = 5 * time.Minute

// Cache keeps fetched status list credentials on disk, keyed by list
// id. Verifiers in offline or semi-connected mode consult it instead of
// dereferencing statusListCredential on every check. A stale entry
// still answers, the caller decides whether staleness is acceptable.
type Cache struct {
	path string
	mu   sync.RWMutex

	entries map[string]*cacheEntry
}

type cacheEntry struct {
	Credential *Credential `json:"credential"`
	FetchedAt  time.Time   `json:"fetchedAt"`
}

// DefaultCacheDir returns the default cache directory.
func DefaultCacheDir() string {
	if envPath := os.Getenv("BADGECRAFT_CACHE_PATH"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".badgecraft/cache"
	}
	return filepath.Join(home, ".badgecraft", "cache")
}

// NewCache opens a file-backed status list cache. An empty path selects
// the default location. A missing file starts an empty cache; a corrupt
// file is an error so stale revocation data is never silently dropped.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		path = filepath.Join(DefaultCacheDir(), "statuslists.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		path:    path,
		entries: make(map[string]*cacheEntry),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cached status list credential and its fetch time, or
// false when the list id is unknown.
func (c *Cache) Get(listID string) (*Credential, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[listID]
	if !ok {
		return nil, time.Time{}, false
	}
	return entry.Credential, entry.FetchedAt, true
}

// Put stores a freshly fetched status list credential, replacing any
// previous entry for the same list id.
func (c *Cache) Put(cred *Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cred.ID] = &cacheEntry{
		Credential: cred,
		FetchedAt:  time.Now().UTC(),
	}
	return c.save()
}

// IsStale reports whether the entry for listID is older than the
// threshold. Unknown entries are stale. A threshold of 0 or less
// selects DefaultStaleThreshold.
func (c *Cache) IsStale(listID string, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[listID]
	if !ok {
		return true
	}
	return time.Since(entry.FetchedAt) > threshold
}

// Clear drops every cached list and removes the backing file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return nil
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

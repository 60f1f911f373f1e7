package statuslist

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// ListStore is the persistence collaborator for status list
// credentials. Implementations return (nil, nil) when no list exists
// for the issuer and purpose.
type ListStore interface {
	// StatusList loads the status list credential for an issuer and
	// purpose, or (nil, nil) when none has been created.
	StatusList(ctx context.Context, issuer string, purpose Purpose) (*Credential, error)

	// PutStatusList persists a status list credential, replacing any
	// previous value for the same issuer and purpose.
	PutStatusList(ctx context.Context, cred *Credential) error
}

// Registry mediates all writes to status list credentials. Because a
// status change is a read-modify-write of the whole encoded list, the
// registry holds a per-list lock across the load/update/store cycle so
// concurrent revocations on the same list cannot lose updates.
type Registry struct {
	store    ListStore
	baseURL  string
	capacity int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates a registry over the given store. baseURL is used
// to mint ids for freshly created lists (for example
// "https://badges.example.org"). A capacity of 0 or less selects
// DefaultCapacity for new lists.
func NewRegistry(store ListStore, baseURL string, capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		store:    store,
		baseURL:  baseURL,
		capacity: capacity,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Capacity returns the capacity used for newly minted lists.
func (r *Registry) Capacity() int {
	return r.capacity
}

// ListID returns the id minted for an issuer's list of the given
// purpose.
func (r *Registry) ListID(issuer string, purpose Purpose) string {
	return fmt.Sprintf("%s/status/%s/%s", r.baseURL, url.PathEscape(issuer), purpose)
}

func (r *Registry) listLock(issuer string, purpose Purpose) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := issuer + "\x00" + string(purpose)
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

// Ensure returns the issuer's status list credential for the given
// purpose, creating and persisting a fresh all-zero list if none
// exists.
func (r *Registry) Ensure(ctx context.Context, issuer string, purpose Purpose) (*Credential, error) {
	l := r.listLock(issuer, purpose)
	l.Lock()
	defer l.Unlock()

	return r.ensureLocked(ctx, issuer, purpose)
}

func (r *Registry) ensureLocked(ctx context.Context, issuer string, purpose Purpose) (*Credential, error) {
	cred, err := r.store.StatusList(ctx, issuer, purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to load status list: %w", err)
	}
	if cred != nil {
		return cred, nil
	}

	cred, err = NewCredential(issuer, r.ListID(issuer, purpose), purpose, r.capacity)
	if err != nil {
		return nil, err
	}
	if err := r.store.PutStatusList(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to persist status list: %w", err)
	}
	return cred, nil
}

// SetStatus flips the bit at index on the issuer's list for the given
// purpose and persists the result. The whole cycle runs under the
// per-list lock.
func (r *Registry) SetStatus(ctx context.Context, issuer string, purpose Purpose, index int, revoked bool) error {
	l := r.listLock(issuer, purpose)
	l.Lock()
	defer l.Unlock()

	cred, err := r.ensureLocked(ctx, issuer, purpose)
	if err != nil {
		return err
	}

	updated, err := UpdateStatus(cred.CredentialSubject.EncodedList, index, revoked)
	if err != nil {
		return err
	}
	cred.CredentialSubject.EncodedList = updated

	if err := r.store.PutStatusList(ctx, cred); err != nil {
		return fmt.Errorf("failed to persist status list: %w", err)
	}
	return nil
}

// Status reads the bit at index on the issuer's list. A missing list
// reports false for every index.
func (r *Registry) Status(ctx context.Context, issuer string, purpose Purpose, index int) (bool, error) {
	cred, err := r.store.StatusList(ctx, issuer, purpose)
	if err != nil {
		return false, fmt.Errorf("failed to load status list: %w", err)
	}
	if cred == nil {
		return false, nil
	}
	return IsRevoked(cred.CredentialSubject.EncodedList, index)
}

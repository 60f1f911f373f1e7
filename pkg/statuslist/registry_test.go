package statuslist_test

import (
	"context"
	"sync"
	"testing"

	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memListStore is an in-memory ListStore for testing.
type memListStore struct {
	mu    sync.Mutex
	lists map[string]*statuslist.Credential
}

func newMemListStore() *memListStore {
	return &memListStore{lists: make(map[string]*statuslist.Credential)}
}

func (s *memListStore) key(issuer string, purpose statuslist.Purpose) string {
	return issuer + "|" + string(purpose)
}

func (s *memListStore) StatusList(_ context.Context, issuer string, purpose statuslist.Purpose) (*statuslist.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.lists[s.key(issuer, purpose)]
	if !ok {
		return nil, nil
	}
	clone := *cred
	return &clone, nil
}

func (s *memListStore) PutStatusList(_ context.Context, cred *statuslist.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *cred
	s.lists[s.key(cred.Issuer, statuslist.Purpose(cred.CredentialSubject.StatusPurpose))] = &clone
	return nil
}

func TestRegistryEnsure(t *testing.T) {
	store := newMemListStore()
	reg := statuslist.NewRegistry(store, "https://badges.example.org", 64)
	ctx := context.Background()

	cred, err := reg.Ensure(ctx, "did:key:z6MkIssuer", statuslist.PurposeRevocation)
	require.NoError(t, err)
	assert.Equal(t, "did:key:z6MkIssuer", cred.Issuer)
	assert.Equal(t, reg.ListID("did:key:z6MkIssuer", statuslist.PurposeRevocation), cred.ID)

	// Second Ensure returns the persisted list, not a new one.
	again, err := reg.Ensure(ctx, "did:key:z6MkIssuer", statuslist.PurposeRevocation)
	require.NoError(t, err)
	assert.Equal(t, cred.ID, again.ID)
	assert.Equal(t, cred.CredentialSubject.EncodedList, again.CredentialSubject.EncodedList)
}

func TestRegistrySetAndStatus(t *testing.T) {
	store := newMemListStore()
	reg := statuslist.NewRegistry(store, "https://badges.example.org", 64)
	ctx := context.Background()
	issuer := "did:key:z6MkIssuer"

	require.NoError(t, reg.SetStatus(ctx, issuer, statuslist.PurposeRevocation, 7, true))

	revoked, err := reg.Status(ctx, issuer, statuslist.PurposeRevocation, 7)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = reg.Status(ctx, issuer, statuslist.PurposeRevocation, 8)
	require.NoError(t, err)
	assert.False(t, revoked)

	// Suspension list is independent of the revocation list.
	revoked, err = reg.Status(ctx, issuer, statuslist.PurposeSuspension, 7)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, reg.SetStatus(ctx, issuer, statuslist.PurposeRevocation, 7, false))
	revoked, err = reg.Status(ctx, issuer, statuslist.PurposeRevocation, 7)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRegistryMissingListStatus(t *testing.T) {
	reg := statuslist.NewRegistry(newMemListStore(), "https://badges.example.org", 64)

	revoked, err := reg.Status(context.Background(), "did:key:z6MkNobody", statuslist.PurposeRevocation, 3)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRegistryConcurrentUpdates(t *testing.T) {
	// Concurrent revocations of different indices on the same list must
	// not lose updates; the per-list lock serializes the
	// read-modify-write cycles.
	store := newMemListStore()
	reg := statuslist.NewRegistry(store, "https://badges.example.org", 256)
	ctx := context.Background()
	issuer := "did:key:z6MkIssuer"

	var wg sync.WaitGroup
	for i := 0; i < 128; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			assert.NoError(t, reg.SetStatus(ctx, issuer, statuslist.PurposeRevocation, index, true))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 128; i++ {
		revoked, err := reg.Status(ctx, issuer, statuslist.PurposeRevocation, i)
		require.NoError(t, err)
		assert.True(t, revoked, "index %d lost its update", i)
	}
	for i := 128; i < 256; i++ {
		revoked, err := reg.Status(ctx, issuer, statuslist.PurposeRevocation, i)
		require.NoError(t, err)
		assert.False(t, revoked)
	}
}

// Package integration exercises the full badge lifecycle over the
// on-disk stores: key generation, issuance, verification, revocation
// and the HTTP API.
package integration

import (
	"net/http"
	"testing"

	"github.com/badgecraft/badgecraft-core/internal/rest"
	"github.com/badgecraft/badgecraft-core/pkg/issuer"
	"github.com/badgecraft/badgecraft-core/pkg/keys"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/badgecraft/badgecraft-core/pkg/store"
	"github.com/stretchr/testify/require"
)

const (
	testIssuerID = "did:web:badges.example.org"
	testBaseURL  = "https://badges.example.org"
)

type env struct {
	Keys     *keys.FileStore
	Store    *store.FileStore
	Registry *statuslist.Registry
	Service  *issuer.Service
}

// newEnv builds a full stack on temporary directories, with one signing
// key registered for the test issuer.
func newEnv(t *testing.T) *env {
	t.Helper()

	keyStore, err := keys.NewFileStore(t.TempDir())
	require.NoError(t, err)

	key, err := keys.Generate(testIssuerID)
	require.NoError(t, err)
	require.NoError(t, keyStore.Put(key))

	badgeStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	registry := statuslist.NewRegistry(badgeStore, testBaseURL, 0)

	svc, err := issuer.NewService(issuer.Config{
		Keys:   keyStore,
		Store:  badgeStore,
		Status: registry,
	})
	require.NoError(t, err)

	return &env{
		Keys:     keyStore,
		Store:    badgeStore,
		Registry: registry,
		Service:  svc,
	}
}

func (e *env) handler() http.Handler {
	return rest.NewServer(e.Service, e.Registry).Handler()
}

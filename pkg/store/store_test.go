package store_test

import (
	"context"
	"testing"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/badgecraft/badgecraft-core/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]store.Store {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]store.Store{
		"memory": store.NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestAssertionRoundTrip(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			missing, err := s.Assertion(ctx, "urn:uuid:00000000-0000-4000-8000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, missing)

			cred := &credential.Credential{
				Context:      []string{credential.ContextCredentialsV1, credential.ContextOpenBadgesV3},
				ID:           "urn:uuid:c7b1282b-32ab-43ec-a1ae-b5a5b1b0e55a",
				Type:         []string{credential.TypeVerifiableCredential, credential.TypeOpenBadgeCredential},
				Issuer:       credential.Issuer{ID: "did:key:z6MkIssuer", Type: credential.TypeProfile},
				IssuanceDate: "2026-01-15T09:00:00Z",
				CredentialSubject: credential.Subject{
					Type: []string{credential.TypeAchievementSubject},
				},
			}
			require.NoError(t, s.PutAssertion(ctx, cred))

			got, err := s.Assertion(ctx, cred.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, cred.ID, got.ID)
			assert.Equal(t, cred.Issuer.ID, got.Issuer.ID)
		})
	}
}

func TestAssertionsList(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := s.Assertions(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			ids := []string{
				"urn:uuid:0d1f6e3a-9c58-4a6e-8e5d-0a1b2c3d4e5f",
				"urn:uuid:1e2d3c4b-5a69-4788-9a0b-c1d2e3f40516",
			}
			for _, id := range ids {
				require.NoError(t, s.PutAssertion(ctx, &credential.Credential{
					Context:      []string{credential.ContextCredentialsV1, credential.ContextOpenBadgesV3},
					ID:           id,
					Type:         []string{credential.TypeVerifiableCredential, credential.TypeOpenBadgeCredential},
					Issuer:       credential.Issuer{ID: "did:key:z6MkIssuer", Type: credential.TypeProfile},
					IssuanceDate: "2026-01-15T09:00:00Z",
				}))
			}

			all, err := s.Assertions(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)

			got := []string{all[0].ID, all[1].ID}
			assert.ElementsMatch(t, ids, got)
		})
	}
}

func TestStatusListRoundTrip(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			missing, err := s.StatusList(ctx, "did:key:z6MkIssuer", statuslist.PurposeRevocation)
			require.NoError(t, err)
			assert.Nil(t, missing)

			list, err := statuslist.NewCredential("did:key:z6MkIssuer",
				"https://badges.example.org/status/revocation", statuslist.PurposeRevocation, 64)
			require.NoError(t, err)
			require.NoError(t, s.PutStatusList(ctx, list))

			got, err := s.StatusList(ctx, "did:key:z6MkIssuer", statuslist.PurposeRevocation)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, list.CredentialSubject.EncodedList, got.CredentialSubject.EncodedList)

			// Purposes are stored independently.
			other, err := s.StatusList(ctx, "did:key:z6MkIssuer", statuslist.PurposeSuspension)
			require.NoError(t, err)
			assert.Nil(t, other)
		})
	}
}

func TestStatusListReplace(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			list, err := statuslist.NewCredential("did:key:z6MkIssuer",
				"https://badges.example.org/status/revocation", statuslist.PurposeRevocation, 64)
			require.NoError(t, err)
			require.NoError(t, s.PutStatusList(ctx, list))

			updated, err := statuslist.UpdateStatus(list.CredentialSubject.EncodedList, 5, true)
			require.NoError(t, err)
			list.CredentialSubject.EncodedList = updated
			require.NoError(t, s.PutStatusList(ctx, list))

			got, err := s.StatusList(ctx, "did:key:z6MkIssuer", statuslist.PurposeRevocation)
			require.NoError(t, err)
			revoked, err := statuslist.IsRevoked(got.CredentialSubject.EncodedList, 5)
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

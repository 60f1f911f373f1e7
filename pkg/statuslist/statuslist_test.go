package statuslist_test

import (
	"testing"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/bitstring"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredential(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cred, err := statuslist.NewCredentialAt(
		"did:key:z6MkExample",
		"https://badges.example.org/status/1",
		statuslist.PurposeRevocation,
		64,
		issuedAt,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		statuslist.ContextCredentialsV1,
		statuslist.ContextStatusList2021,
	}, cred.Context)
	assert.Equal(t, []string{
		statuslist.TypeVerifiableCredential,
		statuslist.TypeStatusListCredential,
	}, cred.Type)
	assert.Equal(t, "did:key:z6MkExample", cred.Issuer)
	assert.Equal(t, "2026-03-14T12:00:00Z", cred.IssuanceDate)
	assert.Equal(t, statuslist.TypeStatusList, cred.CredentialSubject.Type)
	assert.Equal(t, "revocation", cred.CredentialSubject.StatusPurpose)

	// Fresh list has no bit set.
	bits, err := bitstring.Decode(cred.CredentialSubject.EncodedList)
	require.NoError(t, err)
	require.Equal(t, 64, bits.Len())
	for i := 0; i < 64; i++ {
		set, err := bits.Get(i)
		require.NoError(t, err)
		assert.False(t, set)
	}
}

func TestNewCredentialDefaults(t *testing.T) {
	cred, err := statuslist.NewCredential("did:key:z6Mk", "urn:uuid:list", statuslist.PurposeSuspension, 0)
	require.NoError(t, err)

	bits, err := bitstring.Decode(cred.CredentialSubject.EncodedList)
	require.NoError(t, err)
	assert.Equal(t, statuslist.DefaultCapacity, bits.Len())
}

func TestNewCredentialInvalidPurpose(t *testing.T) {
	_, err := statuslist.NewCredential("did:key:z6Mk", "urn:uuid:list", "expiration", 16)
	assert.ErrorIs(t, err, statuslist.ErrInvalidPurpose)
}

func TestUpdateStatusAndIsRevoked(t *testing.T) {
	cred, err := statuslist.NewCredential("did:key:z6Mk", "urn:uuid:list", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)
	list := cred.CredentialSubject.EncodedList

	// Revoke index 3.
	list, err = statuslist.UpdateStatus(list, 3, true)
	require.NoError(t, err)

	revoked, err := statuslist.IsRevoked(list, 3)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = statuslist.IsRevoked(list, 4)
	require.NoError(t, err)
	assert.False(t, revoked)

	// Reinstate index 3.
	list, err = statuslist.UpdateStatus(list, 3, false)
	require.NoError(t, err)

	revoked, err = statuslist.IsRevoked(list, 3)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestUpdateStatusOutOfRange(t *testing.T) {
	cred, err := statuslist.NewCredential("did:key:z6Mk", "urn:uuid:list", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	_, err = statuslist.UpdateStatus(cred.CredentialSubject.EncodedList, 16, true)
	assert.ErrorIs(t, err, bitstring.ErrIndexOutOfRange)
}

func TestIsRevokedLenientOutOfRange(t *testing.T) {
	cred, err := statuslist.NewCredential("did:key:z6Mk", "urn:uuid:list", statuslist.PurposeRevocation, 16)
	require.NoError(t, err)

	// Indices beyond the list length report false, not an error.
	revoked, err := statuslist.IsRevoked(cred.CredentialSubject.EncodedList, 4096)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestIsRevokedMalformedList(t *testing.T) {
	_, err := statuslist.IsRevoked("not base64 at all!!!", 0)
	assert.ErrorIs(t, err, bitstring.ErrInvalidEncoding)
}

func TestIndexForIdentity(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		const id = "c7b1282b-32ab-43ec-a1ae-b5a5b1b0e55a"

		first, err := statuslist.IndexForIdentity(id, 0)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			again, err := statuslist.IndexForIdentity(id, 0)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}

		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, statuslist.DefaultCapacity)
	})

	t.Run("known derivation", func(t *testing.T) {
		// First 8 hex chars 0x00000011 = 17, mod 16 = 1.
		idx, err := statuslist.IndexForIdentity("00000011-0000-4000-8000-000000000000", 16)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("malformed identity", func(t *testing.T) {
		_, err := statuslist.IndexForIdentity("not-a-uuid", 0)
		assert.ErrorIs(t, err, statuslist.ErrMalformedIdentity)
	})
}

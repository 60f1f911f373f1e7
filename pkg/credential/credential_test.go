package credential_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"testing"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential() *credential.Credential {
	return &credential.Credential{
		Context: []string{credential.ContextCredentialsV1, credential.ContextOpenBadgesV3},
		ID:      "urn:uuid:c7b1282b-32ab-43ec-a1ae-b5a5b1b0e55a",
		Type:    []string{credential.TypeVerifiableCredential, credential.TypeOpenBadgeCredential},
		Issuer: credential.Issuer{
			ID:   "did:key:z6MkTestIssuer",
			Type: credential.TypeProfile,
			Name: "Example University",
		},
		IssuanceDate: "2026-01-15T09:00:00Z",
		CredentialSubject: credential.Subject{
			ID:   "mailto:learner@example.edu",
			Type: []string{credential.TypeAchievementSubject},
			Achievement: &credential.Achievement{
				ID:          "https://badges.example.edu/achievements/gopher",
				Type:        []string{credential.TypeAchievement},
				Name:        "Gopher of Distinction",
				Description: "Completed the systems track.",
				Criteria:    &credential.Criteria{Narrative: "Ship a service to production."},
			},
		},
	}
}

func TestSignAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{
		VerificationMethod: "did:key:z6MkTestIssuer#z6MkTestIssuer",
	})
	require.NoError(t, err)

	require.NotNil(t, signed.Proof)
	assert.Equal(t, credential.ProofTypeDataIntegrity, signed.Proof.Type)
	assert.Equal(t, credential.CryptosuiteEdDSA, signed.Proof.Cryptosuite)
	assert.Equal(t, credential.ProofPurposeAssertion, signed.Proof.ProofPurpose)
	assert.NotEmpty(t, signed.Proof.ProofValue)
	// base64url, no padding.
	assert.NotContains(t, signed.Proof.ProofValue, "=")
	assert.NotContains(t, signed.Proof.ProofValue, "+")

	result := credential.Verify(signed, pub)
	assert.True(t, result.Verified)
	require.NotNil(t, result.Results)
	assert.True(t, result.Results.SignatureVerification)
	assert.Empty(t, result.Error)
}

func TestSignDoesNotMutateInput(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cred := testCredential()
	_, err = credential.Sign(cred, priv, credential.SignOptions{})
	require.NoError(t, err)
	assert.Nil(t, cred.Proof)
}

func TestSignInvalidKey(t *testing.T) {
	_, err := credential.Sign(testCredential(), make([]byte, 32), credential.SignOptions{})
	assert.ErrorIs(t, err, credential.ErrSigningKey)

	_, err = credential.Sign(testCredential(), nil, credential.SignOptions{})
	assert.ErrorIs(t, err, credential.ErrSigningKey)
}

func TestVerifyWrongKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{})
	require.NoError(t, err)

	result := credential.Verify(signed, otherPub)
	assert.False(t, result.Verified)
}

func TestVerifyTamperedCredential(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{})
	require.NoError(t, err)

	tampered := *signed
	subject := tampered.CredentialSubject
	achievement := *subject.Achievement
	achievement.Name = "Supreme Gopher of Distinction"
	subject.Achievement = &achievement
	tampered.CredentialSubject = subject

	result := credential.Verify(&tampered, pub)
	assert.False(t, result.Verified)
}

func TestVerifyNoProof(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	result := credential.Verify(testCredential(), pub)
	assert.False(t, result.Verified)
	assert.Equal(t, "No proof found in credential", result.Error)
}

func TestVerifyMalformedProofValue(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{})
	require.NoError(t, err)
	signed.Proof.ProofValue = "%%% not base64url %%%"

	result := credential.Verify(signed, pub)
	assert.False(t, result.Verified)
	assert.Contains(t, result.Error, "proofValue")
}

func TestVerifyBadPublicKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{})
	require.NoError(t, err)

	result := credential.Verify(signed, make([]byte, 16))
	assert.False(t, result.Verified)
	assert.NotEmpty(t, result.Error)
}

func TestSigningPayloadDeterministic(t *testing.T) {
	cred := testCredential()

	first, err := credential.SigningPayload(cred)
	require.NoError(t, err)
	second, err := credential.SigningPayload(cred)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The payload never contains the proof.
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signed, err := credential.Sign(cred, priv, credential.SignOptions{})
	require.NoError(t, err)

	withProof, err := credential.SigningPayload(signed)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(withProof, &m))
	assert.NotContains(t, m, "proof")
}

func TestVerifySurvivesJSONRoundTrip(t *testing.T) {
	// A signed credential serialized and re-parsed must still verify:
	// the payload recomputation cannot depend on in-memory state.
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signed, err := credential.Sign(testCredential(), priv, credential.SignOptions{
		VerificationMethod: "did:key:z6MkTestIssuer#key-1",
		Created:            time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	data, err := json.Marshal(signed)
	require.NoError(t, err)

	env, err := credential.Parse(data)
	require.NoError(t, err)
	require.Equal(t, credential.VersionOB3, env.Version)

	result := credential.Verify(env.OB3, pub)
	assert.True(t, result.Verified)
}

func TestStatusFromList(t *testing.T) {
	list, err := statuslist.NewCredential("did:key:z6MkIssuer",
		"https://badges.example.org/status/revocation", statuslist.PurposeRevocation, 64)
	require.NoError(t, err)

	cred := testCredential()
	cred.CredentialStatus = &credential.StatusEntry{
		ID:                   list.ID + "#7",
		Type:                 statuslist.TypeStatusListEntry,
		StatusPurpose:        string(statuslist.PurposeRevocation),
		StatusListIndex:      "7",
		StatusListCredential: list.ID,
	}

	t.Run("not revoked", func(t *testing.T) {
		revoked, err := credential.StatusFromList(cred, list)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked", func(t *testing.T) {
		updated, err := statuslist.UpdateStatus(list.CredentialSubject.EncodedList, 7, true)
		require.NoError(t, err)
		list.CredentialSubject.EncodedList = updated

		revoked, err := credential.StatusFromList(cred, list)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("no status entry", func(t *testing.T) {
		_, err := credential.StatusFromList(testCredential(), list)
		assert.ErrorIs(t, err, credential.ErrMalformed)
	})

	t.Run("purpose mismatch", func(t *testing.T) {
		mismatched := *cred
		entry := *cred.CredentialStatus
		entry.StatusPurpose = string(statuslist.PurposeSuspension)
		mismatched.CredentialStatus = &entry

		_, err := credential.StatusFromList(&mismatched, list)
		assert.ErrorIs(t, err, credential.ErrMalformed)
	})

	t.Run("malformed index", func(t *testing.T) {
		mismatched := *cred
		entry := *cred.CredentialStatus
		entry.StatusListIndex = "seven"
		mismatched.CredentialStatus = &entry

		_, err := credential.StatusFromList(&mismatched, list)
		assert.ErrorIs(t, err, credential.ErrMalformed)
	})
}

package credential

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"
)

// SignOptions configures proof creation.
type SignOptions struct {
	// VerificationMethod is the proof's verificationMethod id,
	// typically <controller>#<publicKeyMultibase>.
	VerificationMethod string

	// ProofPurpose defaults to assertionMethod.
	ProofPurpose string

	// Created overrides the proof creation time (for testing). Zero
	// means now.
	Created time.Time
}

// Sign produces a signed copy of the credential with a
// DataIntegrityProof attached. The input credential is not modified;
// any pre-existing proof is excluded from the signing payload and
// replaced on the returned copy.
//
// Returns ErrSigningKey if the private key is not a well-formed Ed25519
// key.
func Sign(cred *Credential, priv ed25519.PrivateKey, opts SignOptions) (*Credential, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, WrapError(ErrCodeSigningKey,
			fmt.Sprintf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv)), nil)
	}

	signed := *cred
	signed.Proof = nil

	payload, err := SigningPayload(&signed)
	if err != nil {
		return nil, err
	}

	signature := ed25519.Sign(priv, payload)

	created := opts.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	purpose := opts.ProofPurpose
	if purpose == "" {
		purpose = ProofPurposeAssertion
	}

	signed.Proof = &Proof{
		Type:               ProofTypeDataIntegrity,
		Cryptosuite:        CryptosuiteEdDSA,
		Created:            created.Format(time.RFC3339),
		VerificationMethod: opts.VerificationMethod,
		ProofPurpose:       purpose,
		ProofValue:         base64.RawURLEncoding.EncodeToString(signature),
	}

	return &signed, nil
}

package credential

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// Checks itemizes the individual verification outcomes.
type Checks struct {
	SignatureVerification bool `json:"signatureVerification"`
}

// Result is the outcome of verifying a credential. Verification
// failures are values, never errors: an unsigned badge or a bad
// signature is an expected outcome the caller branches on, not an
// exceptional condition.
type Result struct {
	Verified bool    `json:"verified"`
	Error    string  `json:"error,omitempty"`
	Results  *Checks `json:"results,omitempty"`
}

// Verify checks the credential's DataIntegrityProof against the given
// Ed25519 public key. The key is an explicit input: the proof's
// verificationMethod is never trusted to resolve its own key.
//
// A credential without a proof fails closed with a non-empty Error. A
// cryptographic mismatch yields Verified false with no error message.
// Verify holds no state and performs no I/O.
func Verify(cred *Credential, pub ed25519.PublicKey) Result {
	if cred == nil || cred.Proof == nil || cred.Proof.ProofValue == "" {
		return Result{Verified: false, Error: "No proof found in credential"}
	}
	if len(pub) != ed25519.PublicKeySize {
		return Result{Verified: false, Error: fmt.Sprintf(
			"public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))}
	}

	// Recompute the payload over the proof-stripped credential.
	unsigned := *cred
	unsigned.Proof = nil
	payload, err := SigningPayload(&unsigned)
	if err != nil {
		return Result{Verified: false, Error: fmt.Sprintf("failed to compute signing payload: %v", err)}
	}

	signature, err := base64.RawURLEncoding.DecodeString(cred.Proof.ProofValue)
	if err != nil {
		return Result{Verified: false, Error: fmt.Sprintf("malformed proofValue: %v", err)}
	}

	if !ed25519.Verify(pub, payload, signature) {
		return Result{Verified: false}
	}

	return Result{
		Verified: true,
		Results:  &Checks{SignatureVerification: true},
	}
}

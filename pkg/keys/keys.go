// Package keys supplies Ed25519 signing key material per issuer.
//
// A signing key is immutable once issued: rotation creates a new
// record and retains the old one so previously signed badges keep
// verifying. Stores hand the active key to signers and the full
// history to verifiers.
package keys

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/did"
	jose "github.com/go-jose/go-jose/v4"
)

// SigningKey is the key material record for one issuer key.
type SigningKey struct {
	// IssuerID is the owning issuer.
	IssuerID string `json:"issuerId"`

	// PublicKeyMultibase is the base58btc multicodec-prefixed public key.
	PublicKeyMultibase string `json:"publicKeyMultibase"`

	// PrivateKeyMultibase is the base58btc multicodec-prefixed seed.
	PrivateKeyMultibase string `json:"privateKeyMultibase"`

	// Controller is did:key:<publicKeyMultibase>.
	Controller string `json:"controller"`

	// VerificationMethod is <controller>#<publicKeyMultibase>.
	VerificationMethod string `json:"verificationMethod"`

	// CreatedAt is when the key was generated.
	CreatedAt time.Time `json:"createdAt"`
}

// Provider resolves the active signing key for an issuer.
//
// Absence is not an error: implementations return (nil, nil) when no
// key exists for the issuer, and callers raise their own domain error.
type Provider interface {
	SigningKeyFor(ctx context.Context, issuerID string) (*SigningKey, error)
}

// Generate creates a fresh Ed25519 signing key record for an issuer.
func Generate(issuerID string) (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	pubMB, err := did.EncodePublicKey(pub)
	if err != nil {
		return nil, err
	}
	privMB, err := did.EncodePrivateKey(priv)
	if err != nil {
		return nil, err
	}

	controller := "did:key:" + pubMB
	return &SigningKey{
		IssuerID:            issuerID,
		PublicKeyMultibase:  pubMB,
		PrivateKeyMultibase: privMB,
		Controller:          controller,
		VerificationMethod:  controller + "#" + pubMB,
		CreatedAt:           time.Now().UTC(),
	}, nil
}

// PublicKey decodes the record's Ed25519 public key.
func (k *SigningKey) PublicKey() (ed25519.PublicKey, error) {
	return did.DecodePublicKey(k.PublicKeyMultibase)
}

// PrivateKey decodes the record's full Ed25519 private key.
func (k *SigningKey) PrivateKey() (ed25519.PrivateKey, error) {
	return did.DecodePrivateKey(k.PrivateKeyMultibase)
}

// JWK exports the private key as a JSON Web Key, keyed by the
// verification method id.
func (k *SigningKey) JWK() (*jose.JSONWebKey, error) {
	priv, err := k.PrivateKey()
	if err != nil {
		return nil, err
	}
	return &jose.JSONWebKey{
		Key:       priv,
		KeyID:     k.VerificationMethod,
		Algorithm: string(jose.EdDSA),
		Use:       "sig",
	}, nil
}

// PublicJWK exports the public key as a JSON Web Key, keyed by the
// verification method id.
func (k *SigningKey) PublicJWK() (*jose.JSONWebKey, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	return &jose.JSONWebKey{
		Key:       pub,
		KeyID:     k.VerificationMethod,
		Algorithm: string(jose.EdDSA),
		Use:       "sig",
	}, nil
}

// Package did provides did:key identifiers and the multibase key
// encodings used by issuer signing keys.
//
// A did:key encodes an Ed25519 public key directly:
//
//	did:key:z<base58btc(0xed01 || public_key)>
//
// The same multicodec-prefixed multibase form is used standalone as the
// publicKeyMultibase of a verification method.
package did

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
)

// Common errors returned by this package.
var (
	ErrInvalidDID         = errors.New("invalid DID format")
	ErrUnsupportedMethod  = errors.New("unsupported DID method (only did:key supported)")
	ErrInvalidMultibase   = errors.New("invalid multibase key encoding")
	ErrUnsupportedKeyType = errors.New("unsupported key type (only Ed25519 supported)")
)

// Multicodec prefixes, varint-encoded, per the did:key method.
var (
	// ed25519PubPrefix is the multicodec prefix for Ed25519 public keys (0xed01).
	ed25519PubPrefix = []byte{0xed, 0x01}

	// ed25519PrivPrefix is the multicodec prefix for Ed25519 private key
	// seeds (0x1300, varint-encoded).
	ed25519PrivPrefix = []byte{0x80, 0x26}
)

// EncodePublicKey encodes an Ed25519 public key as a multibase string
// (base58btc with the 0xed01 multicodec prefix).
func EncodePublicKey(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key must be %d bytes, got %d",
			ErrUnsupportedKeyType, ed25519.PublicKeySize, len(pub))
	}
	return multibase.Encode(multibase.Base58BTC, append(append([]byte{}, ed25519PubPrefix...), pub...))
}

// DecodePublicKey decodes a multibase public key string back to an
// Ed25519 public key.
func DecodePublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := decodePrefixed(encoded, ed25519PubPrefix)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d key bytes, got %d",
			ErrInvalidMultibase, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// EncodePrivateKey encodes an Ed25519 private key seed as a multibase
// string (base58btc with the 0x1300 multicodec prefix).
func EncodePrivateKey(priv ed25519.PrivateKey) (string, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("%w: private key must be %d bytes, got %d",
			ErrUnsupportedKeyType, ed25519.PrivateKeySize, len(priv))
	}
	return multibase.Encode(multibase.Base58BTC, append(append([]byte{}, ed25519PrivPrefix...), priv.Seed()...))
}

// DecodePrivateKey decodes a multibase private key string back to a
// full Ed25519 private key.
func DecodePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := decodePrefixed(encoded, ed25519PrivPrefix)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: expected %d seed bytes, got %d",
			ErrInvalidMultibase, ed25519.SeedSize, len(raw))
	}
	return ed25519.NewKeyFromSeed(raw), nil
}

func decodePrefixed(encoded string, prefix []byte) ([]byte, error) {
	enc, data, err := multibase.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMultibase, err)
	}
	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("%w: expected base58btc ('z') encoding", ErrInvalidMultibase)
	}
	if len(data) < len(prefix) {
		return nil, fmt.Errorf("%w: decoded value too short", ErrInvalidMultibase)
	}
	for i, b := range prefix {
		if data[i] != b {
			return nil, fmt.Errorf("%w: unexpected multicodec prefix 0x%02x%02x",
				ErrUnsupportedKeyType, data[0], data[1])
		}
	}
	return data[len(prefix):], nil
}

// NewKeyDID constructs a did:key identifier from an Ed25519 public key.
func NewKeyDID(pub ed25519.PublicKey) (string, error) {
	encoded, err := EncodePublicKey(pub)
	if err != nil {
		return "", err
	}
	return "did:key:" + encoded, nil
}

// PublicKeyFromKeyDID extracts the Ed25519 public key from a did:key
// identifier or from a did:key verification method reference
// (did:key:z6Mk...#z6Mk...).
func PublicKeyFromKeyDID(didStr string) (ed25519.PublicKey, error) {
	if didStr == "" {
		return nil, ErrInvalidDID
	}

	// Strip a verification method fragment, if any.
	if i := strings.IndexByte(didStr, '#'); i >= 0 {
		didStr = didStr[:i]
	}

	parts := strings.Split(didStr, ":")
	if len(parts) != 3 || parts[0] != "did" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDID, didStr)
	}
	if parts[1] != "key" {
		return nil, fmt.Errorf("%w: got did:%s", ErrUnsupportedMethod, parts[1])
	}

	return DecodePublicKey(parts[2])
}

// Package statuslist builds and maintains W3C Status List 2021
// credentials: compact bitstring registries that record the revocation
// or suspension state of issued badges.
package statuslist

import (
	"errors"
	"fmt"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/bitstring"
)

// JSON-LD contexts carried by every status list credential.
const (
	ContextCredentialsV1  = "https://www.w3.org/2018/credentials/v1"
	ContextStatusList2021 = "https://w3id.org/vc/status-list/2021/v1"
)

// Type names used in the credential envelope.
const (
	TypeVerifiableCredential = "VerifiableCredential"
	TypeStatusListCredential = "StatusList2021Credential"
	TypeStatusList           = "StatusList2021"

	// TypeStatusListEntry is the credentialStatus type badges carry to
	// point into a status list.
	TypeStatusListEntry = "StatusList2021Entry"
)

// DefaultCapacity is the number of entries in a freshly minted status
// list.
const DefaultCapacity = 16384

// Common errors returned by this package.
var (
	ErrInvalidPurpose = errors.New("invalid status purpose")
)

// Purpose is the statusPurpose of a list.
type Purpose string

// Supported status purposes.
const (
	PurposeRevocation Purpose = "revocation"
	PurposeSuspension Purpose = "suspension"
)

// Valid reports whether p is a supported status purpose.
func (p Purpose) Valid() bool {
	return p == PurposeRevocation || p == PurposeSuspension
}

// Subject is the credentialSubject of a status list credential.
type Subject struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	StatusPurpose string `json:"statusPurpose"`
	EncodedList   string `json:"encodedList"`
}

// Credential is a StatusList2021Credential: a Verifiable-Credential-
// shaped record whose subject carries the encoded bitstring.
//
// The encoded list is mutated by whole-value read-modify-write: every
// status change decodes it, flips one bit and re-encodes it. Callers
// updating the same credential concurrently must serialize writes (see
// Registry); the codec itself takes no locks.
type Credential struct {
	Context           []string `json:"@context"`
	ID                string   `json:"id"`
	Type              []string `json:"type"`
	Issuer            string   `json:"issuer"`
	IssuanceDate      string   `json:"issuanceDate"`
	CredentialSubject Subject  `json:"credentialSubject"`
}

// NewCredential builds a fresh status list credential with an all-zero
// encoded list. A capacity of 0 or less selects DefaultCapacity.
func NewCredential(issuer, id string, purpose Purpose, capacity int) (*Credential, error) {
	return NewCredentialAt(issuer, id, purpose, capacity, time.Now().UTC())
}

// NewCredentialAt is NewCredential with an explicit issuance time, for
// deterministic construction in tests.
func NewCredentialAt(issuer, id string, purpose Purpose, capacity int, issuedAt time.Time) (*Credential, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPurpose, purpose)
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	bits, err := bitstring.New(capacity)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Context:      []string{ContextCredentialsV1, ContextStatusList2021},
		ID:           id,
		Type:         []string{TypeVerifiableCredential, TypeStatusListCredential},
		Issuer:       issuer,
		IssuanceDate: issuedAt.Format(time.RFC3339),
		CredentialSubject: Subject{
			ID:            id + "#list",
			Type:          TypeStatusList,
			StatusPurpose: string(purpose),
			EncodedList:   bits.Encode(),
		},
	}, nil
}

// UpdateStatus decodes encodedList, sets or clears the bit at index and
// returns the re-encoded list. Returns bitstring.ErrIndexOutOfRange if
// index is beyond the decoded length.
//
// The transform is pure; callers are responsible for serializing
// concurrent updates to the same list value.
func UpdateStatus(encodedList string, index int, revoked bool) (string, error) {
	bits, err := bitstring.Decode(encodedList)
	if err != nil {
		return "", err
	}

	if revoked {
		err = bits.Set(index)
	} else {
		err = bits.Clear(index)
	}
	if err != nil {
		return "", err
	}

	return bits.Encode(), nil
}

// IsRevoked decodes encodedList and reads the bit at index. Indices at
// or beyond the decoded length report false rather than erroring; this
// leniency is inherited from the wire format's decode behavior and kept
// for compatibility.
func IsRevoked(encodedList string, index int) (bool, error) {
	bits, err := bitstring.Decode(encodedList)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= bits.Len() {
		return false, nil
	}
	return bits.Get(index)
}

// Package store persists issued credentials and status list
// credentials. It is the durable-storage collaborator of the issuance
// flow: assertions keyed by id, status lists keyed by issuer and
// purpose.
package store

import (
	"context"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
)

// Store is the persistence contract consumed by the issuance service.
// Lookups return (nil, nil) when the record does not exist; absence is
// the caller's domain error to raise.
//
// Implementations must make PutStatusList durable before returning:
// the status list registry relies on read-modify-write against this
// store being the single source of truth for an issuer's list.
type Store interface {
	statuslist.ListStore

	// PutAssertion persists an issued credential, replacing any
	// previous record with the same id.
	PutAssertion(ctx context.Context, cred *credential.Credential) error

	// Assertion loads an issued credential by id, or (nil, nil) when
	// unknown.
	Assertion(ctx context.Context, id string) (*credential.Credential, error)

	// Assertions lists every issued credential. Order is unspecified.
	Assertions(ctx context.Context) ([]*credential.Credential, error)
}

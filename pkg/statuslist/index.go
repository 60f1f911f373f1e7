package statuslist

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformedIdentity is returned when a credential identity is not a
// valid UUID.
var ErrMalformedIdentity = errors.New("credential identity is not a valid UUID")

// IndexForIdentity deterministically derives a status list index from a
// credential UUID: the first 32 bits of the dash-stripped UUID, reduced
// modulo capacity. A capacity of 0 or less selects DefaultCapacity.
//
// The derivation is NOT collision-free: two distinct UUIDs may map to
// the same index. This is an accepted limitation of the scheme, shared
// with existing deployments, and callers must tolerate it.
func IndexForIdentity(id string, capacity int) (int, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	u, err := uuid.Parse(id)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}

	// The first 8 hex characters of the canonical form are the first
	// four bytes of the UUID, big-endian.
	return int(binary.BigEndian.Uint32(u[:4]) % uint32(capacity)), nil
}

package credential

import (
	"encoding/json"
	"fmt"
)

// SigningPayload produces the canonical byte payload a proof signs:
// the credential serialized as JSON with the proof field removed and
// map keys sorted (encoding/json sorts map keys, which stands in for
// the reference implementation's stable serializer — no RDF dataset
// canonicalization is performed).
//
// Signing and verification must both go through this function so the
// recomputed payload matches byte for byte.
func SigningPayload(cred *Credential) ([]byte, error) {
	data, err := json.Marshal(cred)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}

	var rawMap map[string]interface{}
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	delete(rawMap, "proof")

	payload, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create canonical payload: %w", err)
	}

	return payload, nil
}

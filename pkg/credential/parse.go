package credential

import (
	"encoding/json"
	"fmt"
)

// Version tags the Open Badges generation of a parsed document. It is
// decided once at parse time from the @context set, not re-inferred on
// every read.
type Version int

// Supported versions.
const (
	VersionUnknown Version = iota
	VersionOB2
	VersionOB3
)

// String returns the human-readable version name.
func (v Version) String() string {
	switch v {
	case VersionOB2:
		return "OB2"
	case VersionOB3:
		return "OB3"
	default:
		return "unknown"
	}
}

// Assertion is an Open Badges 2.0 hosted assertion. OB2 badges carry
// no embedded proof; their verification is hosted (the assertion URL is
// fetched and compared), so they pass through signature verification
// untouched.
type Assertion struct {
	Context          string          `json:"@context"`
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Recipient        json.RawMessage `json:"recipient,omitempty"`
	Badge            json.RawMessage `json:"badge,omitempty"`
	IssuedOn         string          `json:"issuedOn,omitempty"`
	Revoked          bool            `json:"revoked,omitempty"`
	RevocationReason string          `json:"revocationReason,omitempty"`
}

// Envelope is the tagged variant of a parsed badge document: exactly
// one of OB2 and OB3 is set, selected by Version.
type Envelope struct {
	Version Version
	OB2     *Assertion
	OB3     *Credential
}

// contextProbe extracts just enough of a document to classify it. OB2
// assertions use a single context string; OB3 credentials use an array.
type contextProbe struct {
	Context json.RawMessage `json:"@context"`
}

// Parse classifies and decodes a badge document. The version is
// decided here, once, from @context; callers branch on Envelope.Version
// instead of re-inspecting the context downstream.
func Parse(data []byte) (*Envelope, error) {
	var probe contextProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, WrapError(ErrCodeMalformed, "failed to parse credential document", err)
	}
	if len(probe.Context) == 0 {
		return nil, NewError(ErrCodeMalformed, "missing @context")
	}

	contexts, err := contextSet(probe.Context)
	if err != nil {
		return nil, err
	}

	switch {
	case contains(contexts, ContextOpenBadgesV2):
		var assertion Assertion
		if err := json.Unmarshal(data, &assertion); err != nil {
			return nil, WrapError(ErrCodeMalformed, "failed to parse OB2 assertion", err)
		}
		return &Envelope{Version: VersionOB2, OB2: &assertion}, nil

	case contains(contexts, ContextCredentialsV1):
		var cred Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			return nil, WrapError(ErrCodeMalformed, "failed to parse OB3 credential", err)
		}
		return &Envelope{Version: VersionOB3, OB3: &cred}, nil

	default:
		return nil, WrapError(ErrCodeUnsupportedVersion,
			fmt.Sprintf("unrecognized @context set %v", contexts), nil)
	}
}

// contextSet normalizes @context, which may be a single string or an
// array of strings (object-valued entries are ignored).
func contextSet(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, WrapError(ErrCodeMalformed, "invalid @context", err)
	}

	var contexts []string
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			contexts = append(contexts, s)
		}
	}
	return contexts, nil
}

func contains(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}

// Package issuer orchestrates the badge lifecycle: building and
// signing Open Badges 3.0 credentials, persisting them, and driving
// revocation through the issuer's status list.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/keys"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/badgecraft/badgecraft-core/pkg/store"
	"github.com/google/uuid"
)

// Common errors returned by this package.
var (
	// ErrNoSigningKey is raised when the key provider has no key for
	// the issuer (the provider itself reports absence as nil, nil).
	ErrNoSigningKey = errors.New("no signing key registered for issuer")

	// ErrAssertionNotFound is raised when a stored credential id is
	// unknown.
	ErrAssertionNotFound = errors.New("assertion not found")
)

// KeyHistory extends the key provider with access to rotated keys, so
// badges signed before a rotation can still be verified.
type KeyHistory interface {
	keys.Provider
	AllKeysFor(ctx context.Context, issuerID string) ([]*keys.SigningKey, error)
}

// Config holds the collaborators of the issuance service.
type Config struct {
	Keys   KeyHistory
	Store  store.Store
	Status *statuslist.Registry

	// Now overrides the clock (for testing).
	Now func() time.Time
}

// Service implements the badge lifecycle over its collaborators.
type Service struct {
	keys   KeyHistory
	store  store.Store
	status *statuslist.Registry
	now    func() time.Time
}

// NewService creates an issuance service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Keys == nil || cfg.Store == nil || cfg.Status == nil {
		return nil, fmt.Errorf("issuer service requires Keys, Store and Status collaborators")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		keys:   cfg.Keys,
		store:  cfg.Store,
		status: cfg.Status,
		now:    now,
	}, nil
}

// IssueRequest describes the badge to issue.
type IssueRequest struct {
	// IssuerID is the issuer's identity; it must have a signing key
	// registered with the key provider.
	IssuerID   string
	IssuerName string

	// RecipientID identifies the earner, e.g. a DID or mailto: URI.
	RecipientID string

	// Achievement fields.
	AchievementID          string
	AchievementName        string
	AchievementDescription string
	CriteriaNarrative      string

	// Expires optionally sets an expiration date.
	Expires time.Time
}

// Issue builds, signs and persists an OB3 credential. The credential
// gets a urn:uuid id, a StatusList2021Entry derived from that id, and
// a DataIntegrityProof from the issuer's active key.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*credential.Credential, error) {
	key, err := s.keys.SigningKeyFor(ctx, req.IssuerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signing key: %w", err)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSigningKey, req.IssuerID)
	}

	id := uuid.NewString()
	index, err := statuslist.IndexForIdentity(id, s.status.Capacity())
	if err != nil {
		return nil, err
	}

	// The revocation list must exist before anything points into it.
	list, err := s.status.Ensure(ctx, req.IssuerID, statuslist.PurposeRevocation)
	if err != nil {
		return nil, err
	}

	cred := &credential.Credential{
		Context: []string{credential.ContextCredentialsV1, credential.ContextOpenBadgesV3},
		ID:      "urn:uuid:" + id,
		Type:    []string{credential.TypeVerifiableCredential, credential.TypeOpenBadgeCredential},
		Issuer: credential.Issuer{
			ID:   req.IssuerID,
			Type: credential.TypeProfile,
			Name: req.IssuerName,
		},
		IssuanceDate: s.now().UTC().Format(time.RFC3339),
		CredentialSubject: credential.Subject{
			ID:   req.RecipientID,
			Type: []string{credential.TypeAchievementSubject},
			Achievement: &credential.Achievement{
				ID:          req.AchievementID,
				Type:        []string{credential.TypeAchievement},
				Name:        req.AchievementName,
				Description: req.AchievementDescription,
			},
		},
		CredentialStatus: &credential.StatusEntry{
			ID:                   fmt.Sprintf("%s#%d", list.ID, index),
			Type:                 statuslist.TypeStatusListEntry,
			StatusPurpose:        string(statuslist.PurposeRevocation),
			StatusListIndex:      strconv.Itoa(index),
			StatusListCredential: list.ID,
		},
	}
	if req.CriteriaNarrative != "" {
		cred.CredentialSubject.Achievement.Criteria = &credential.Criteria{
			Narrative: req.CriteriaNarrative,
		}
	}
	if !req.Expires.IsZero() {
		cred.ExpirationDate = req.Expires.UTC().Format(time.RFC3339)
	}

	priv, err := key.PrivateKey()
	if err != nil {
		return nil, credential.WrapError(credential.ErrCodeSigningKey, "failed to decode private key", err)
	}

	signed, err := credential.Sign(cred, priv, credential.SignOptions{
		VerificationMethod: key.VerificationMethod,
		Created:            s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.PutAssertion(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}
	return signed, nil
}

// Assertion loads a persisted credential by id.
func (s *Service) Assertion(ctx context.Context, assertionID string) (*credential.Credential, error) {
	cred, err := s.store.Assertion(ctx, assertionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assertion: %w", err)
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssertionNotFound, assertionID)
	}
	return cred, nil
}

// Assertions lists every persisted credential.
func (s *Service) Assertions(ctx context.Context) ([]*credential.Credential, error) {
	creds, err := s.store.Assertions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assertions: %w", err)
	}
	return creds, nil
}

// Revoke flips the credential's revocation bit on.
func (s *Service) Revoke(ctx context.Context, assertionID string) error {
	return s.setRevoked(ctx, assertionID, true)
}

// Reinstate flips the credential's revocation bit off.
func (s *Service) Reinstate(ctx context.Context, assertionID string) error {
	return s.setRevoked(ctx, assertionID, false)
}

func (s *Service) setRevoked(ctx context.Context, assertionID string, revoked bool) error {
	cred, entry, err := s.storedAssertion(ctx, assertionID)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(entry.StatusListIndex)
	if err != nil {
		return credential.WrapError(credential.ErrCodeMalformed, "malformed statusListIndex", err)
	}

	purpose := statuslist.Purpose(entry.StatusPurpose)
	return s.status.SetStatus(ctx, cred.Issuer.ID, purpose, index, revoked)
}

// Revoked reports the credential's current revocation state.
func (s *Service) Revoked(ctx context.Context, assertionID string) (bool, error) {
	cred, entry, err := s.storedAssertion(ctx, assertionID)
	if err != nil {
		return false, err
	}

	index, err := strconv.Atoi(entry.StatusListIndex)
	if err != nil {
		return false, credential.WrapError(credential.ErrCodeMalformed, "malformed statusListIndex", err)
	}

	return s.status.Status(ctx, cred.Issuer.ID, statuslist.Purpose(entry.StatusPurpose), index)
}

func (s *Service) storedAssertion(ctx context.Context, assertionID string) (*credential.Credential, *credential.StatusEntry, error) {
	cred, err := s.store.Assertion(ctx, assertionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load assertion: %w", err)
	}
	if cred == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrAssertionNotFound, assertionID)
	}
	if cred.CredentialStatus == nil {
		return nil, nil, credential.NewError(credential.ErrCodeMalformed,
			"stored credential has no credentialStatus entry")
	}
	return cred, cred.CredentialStatus, nil
}

// Verification combines the signature check result with the
// credential's revocation state.
type Verification struct {
	credential.Result
	Revoked bool `json:"revoked"`
}

// VerifyStored loads a persisted credential, checks its proof against
// every key known for its issuer (active first, then rotated
// predecessors) and reads its revocation state.
func (s *Service) VerifyStored(ctx context.Context, assertionID string) (*Verification, error) {
	cred, err := s.store.Assertion(ctx, assertionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assertion: %w", err)
	}
	if cred == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssertionNotFound, assertionID)
	}

	result, err := s.verifyAgainstIssuerKeys(ctx, cred)
	if err != nil {
		return nil, err
	}

	verification := &Verification{Result: result}
	if cred.CredentialStatus != nil {
		revoked, err := s.Revoked(ctx, assertionID)
		if err != nil {
			return nil, err
		}
		verification.Revoked = revoked
	}
	return verification, nil
}

// VerifySubmitted verifies a credential supplied by a caller, resolving
// keys through the issuer's key history. Only issuers this service
// holds keys for can be verified; anything else fails closed.
func (s *Service) VerifySubmitted(ctx context.Context, cred *credential.Credential) (*Verification, error) {
	result, err := s.verifyAgainstIssuerKeys(ctx, cred)
	if err != nil {
		return nil, err
	}

	verification := &Verification{Result: result}
	if result.Verified && cred.CredentialStatus != nil {
		entry := cred.CredentialStatus
		index, err := strconv.Atoi(entry.StatusListIndex)
		if err != nil {
			return nil, credential.WrapError(credential.ErrCodeMalformed, "malformed statusListIndex", err)
		}
		revoked, err := s.status.Status(ctx, cred.Issuer.ID, statuslist.Purpose(entry.StatusPurpose), index)
		if err != nil {
			return nil, err
		}
		verification.Revoked = revoked
	}
	return verification, nil
}

func (s *Service) verifyAgainstIssuerKeys(ctx context.Context, cred *credential.Credential) (credential.Result, error) {
	issuerID := strings.TrimSpace(cred.Issuer.ID)
	if issuerID == "" {
		return credential.Result{Verified: false, Error: "credential has no issuer id"}, nil
	}

	all, err := s.keys.AllKeysFor(ctx, issuerID)
	if err != nil {
		return credential.Result{}, fmt.Errorf("failed to resolve issuer keys: %w", err)
	}
	if len(all) == 0 {
		return credential.Result{Verified: false, Error: fmt.Sprintf("no keys known for issuer %s", issuerID)}, nil
	}

	var last credential.Result
	for _, key := range all {
		pub, err := key.PublicKey()
		if err != nil {
			continue
		}
		last = credential.Verify(cred, pub)
		if last.Verified {
			return last, nil
		}
	}
	return last, nil
}

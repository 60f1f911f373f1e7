// Package credential models Open Badges credentials (OB 2.0 hosted
// assertions and OB 3.0 Verifiable Credentials) and implements the
// Ed25519 Data Integrity proof scheme used to sign and verify them.
package credential

// JSON-LD contexts recognized by this package.
const (
	ContextCredentialsV1 = "https://www.w3.org/2018/credentials/v1"
	ContextOpenBadgesV3  = "https://purl.org/spec/ob/v3p0/context.json"
	ContextOpenBadgesV2  = "https://w3id.org/openbadges/v2"
)

// Proof constants for the supported suite.
const (
	ProofTypeDataIntegrity = "DataIntegrityProof"
	CryptosuiteEdDSA       = "eddsa-rdfc-2022"

	// ProofPurposeAssertion is the default proofPurpose for issued
	// badges.
	ProofPurposeAssertion = "assertionMethod"
)

// Credential type names.
const (
	TypeVerifiableCredential = "VerifiableCredential"
	TypeOpenBadgeCredential  = "OpenBadgeCredential"
	TypeAchievementSubject   = "AchievementSubject"
	TypeAchievement          = "Achievement"
	TypeProfile              = "Profile"
)

// Credential is an Open Badges 3.0 credential: a Verifiable Credential
// whose subject claims an achievement.
type Credential struct {
	// Context is the JSON-LD @context set. Fixed per version; no
	// general JSON-LD processing is performed.
	Context []string `json:"@context"`

	// ID is the credential identifier, a urn:uuid: URI for issued
	// badges.
	ID string `json:"id"`

	// Type is the JSON-LD type set, e.g. [VerifiableCredential,
	// OpenBadgeCredential].
	Type []string `json:"type"`

	// Issuer is the issuing profile.
	Issuer Issuer `json:"issuer"`

	// IssuanceDate is the RFC 3339 issuance timestamp.
	IssuanceDate string `json:"issuanceDate"`

	// ExpirationDate is the optional RFC 3339 expiry timestamp.
	ExpirationDate string `json:"expirationDate,omitempty"`

	// CredentialSubject carries the achievement claim.
	CredentialSubject Subject `json:"credentialSubject"`

	// Evidence optionally documents how the achievement was earned.
	Evidence []Evidence `json:"evidence,omitempty"`

	// CredentialSchema optionally references validation schemas.
	CredentialSchema []SchemaRef `json:"credentialSchema,omitempty"`

	// CredentialStatus points into the issuer's status list when the
	// badge is revocable.
	CredentialStatus *StatusEntry `json:"credentialStatus,omitempty"`

	// Proof is present once the credential has been signed. The signing
	// payload always excludes it.
	Proof *Proof `json:"proof,omitempty"`
}

// Issuer is the OB3 issuer profile.
type Issuer struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// Subject is the credentialSubject of an OB3 credential.
type Subject struct {
	// ID identifies the recipient, e.g. a DID or email URI.
	ID string `json:"id,omitempty"`

	Type []string `json:"type"`

	// Achievement is the badge class being asserted.
	Achievement *Achievement `json:"achievement,omitempty"`
}

// Achievement describes the badge class.
type Achievement struct {
	ID          string    `json:"id"`
	Type        []string  `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Criteria    *Criteria `json:"criteria,omitempty"`
	Image       *Image    `json:"image,omitempty"`
}

// Criteria describes what earning the achievement requires.
type Criteria struct {
	ID        string `json:"id,omitempty"`
	Narrative string `json:"narrative,omitempty"`
}

// Image is a badge image reference.
type Image struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Evidence documents how an achievement was earned.
type Evidence struct {
	ID        string   `json:"id,omitempty"`
	Type      []string `json:"type"`
	Name      string   `json:"name,omitempty"`
	Narrative string   `json:"narrative,omitempty"`
}

// SchemaRef references a credential schema.
type SchemaRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// StatusEntry is a StatusList2021Entry: the pointer from a badge into
// its issuer's status list credential. StatusListIndex is a decimal
// string per the Status List 2021 wire format.
type StatusEntry struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	StatusPurpose        string `json:"statusPurpose"`
	StatusListIndex      string `json:"statusListIndex"`
	StatusListCredential string `json:"statusListCredential"`
}

// Proof is a DataIntegrityProof attached to a signed credential.
// ProofValue is the base64url (unpadded) Ed25519 signature over the
// proof-less credential payload.
type Proof struct {
	Type               string `json:"type"`
	Cryptosuite        string `json:"cryptosuite"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue"`
}

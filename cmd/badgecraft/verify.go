package main

import (
	"context"
	"fmt"
	"os"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/did"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/spf13/cobra"
)

var verifyTrustDIDKey bool

var verifyCmd = &cobra.Command{
	Use:   "verify <credential-file>",
	Short: "Verify a credential's Data Integrity proof",
	Long: `Verify the Ed25519 proof on an OB 3.0 credential and check its
revocation status against the local status lists.

By default the public key is resolved from the local key store for the
credential's issuer. With --trust-did-key the key embedded in the
proof's did:key verificationMethod is used instead; this proves the
document is intact but not who controls the key.

OB 2.0 badges use hosted verification and carry no embedded proof;
they are recognized but cannot be verified offline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read credential: %w", err)
		}

		envelope, err := credential.Parse(data)
		if err != nil {
			return err
		}

		fmt.Printf("📄 version: %s\n", envelope.Version)
		if envelope.Version == credential.VersionOB2 {
			fmt.Println("ℹ️  OB 2.0 assertions use hosted verification; no embedded proof to check")
			return nil
		}

		cred := envelope.OB3
		svc, _, err := newService()
		if err != nil {
			return err
		}

		if verifyTrustDIDKey {
			if cred.Proof == nil {
				return fmt.Errorf("credential has no proof")
			}
			pub, err := did.PublicKeyFromKeyDID(cred.Proof.VerificationMethod)
			if err != nil {
				return fmt.Errorf("failed to resolve verificationMethod: %w", err)
			}
			result := credential.Verify(cred, pub)
			if !result.Verified {
				return printResult(false, result.Error, false, false)
			}
			revoked, checked := cachedStatus(cred)
			return printResult(true, "", checked, revoked)
		}

		verification, err := svc.VerifySubmitted(context.Background(), cred)
		if err != nil {
			return err
		}
		return printResult(verification.Verified, verification.Error, cred.CredentialStatus != nil, verification.Revoked)
	},
}

// cachedStatus consults the local status list cache for third-party
// verification. Returns (revoked, checked); an unknown or stale list
// means the status could not be checked.
func cachedStatus(cred *credential.Credential) (bool, bool) {
	entry := cred.CredentialStatus
	if entry == nil {
		return false, false
	}

	cache, err := statuslist.NewCache("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  status cache unavailable: %v\n", err)
		return false, false
	}

	list, _, ok := cache.Get(entry.StatusListCredential)
	if !ok {
		fmt.Println("ℹ️  status list not cached; revocation not checked")
		return false, false
	}
	if cache.IsStale(entry.StatusListCredential, 0) {
		fmt.Println("⚠️  cached status list is stale")
	}

	revoked, err := credential.StatusFromList(cred, list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  status check failed: %v\n", err)
		return false, false
	}
	return revoked, true
}

func printResult(verified bool, message string, hasStatus, revoked bool) error {
	if !verified {
		if message != "" {
			fmt.Printf("❌ not verified: %s\n", message)
		} else {
			fmt.Println("❌ not verified: signature mismatch")
		}
		return fmt.Errorf("credential did not verify")
	}

	fmt.Println("✅ signature verified")
	if hasStatus {
		if revoked {
			fmt.Println("🚫 credential is revoked")
			return fmt.Errorf("credential is revoked")
		}
		fmt.Println("✅ not revoked")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyTrustDIDKey, "trust-did-key", false,
		"Resolve the public key from the proof's did:key verificationMethod instead of the local key store")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/badgecraft/badgecraft-core/pkg/keys"
	"github.com/spf13/cobra"
)

var (
	keyIssuerID   string
	keyOutPrivate string
	keyOutPublic  string
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage issuer signing keys",
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate an Ed25519 signing key for an issuer",
	Long: `Generate a new Ed25519 key pair and register it as the issuer's
active signing key. A previous active key is kept for verifying badges
signed before the rotation.

The key's controller is a did:key identifier derived from the public
key; issued badges reference it in their proof's verificationMethod.`,
	Example: `  # Generate (or rotate) the signing key for an issuer
  badgecraft key gen --issuer did:web:badges.example.org

  # Also export the key pair as JWK files
  badgecraft key gen --issuer did:web:badges.example.org --out-priv issuer.key.jwk --out-pub issuer.pub.jwk`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if keyIssuerID == "" {
			return fmt.Errorf("--issuer is required")
		}

		key, err := keys.Generate(keyIssuerID)
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}

		keyStore, err := keys.NewFileStore("")
		if err != nil {
			return fmt.Errorf("failed to open key store: %w", err)
		}
		if err := keyStore.Put(key); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		fmt.Printf("✅ Signing key registered for %s\n", keyIssuerID)

		if keyOutPrivate != "" {
			jwk, err := key.JWK()
			if err != nil {
				return err
			}
			if err := writeJWK(keyOutPrivate, jwk, 0600); err != nil {
				return fmt.Errorf("failed to write private key: %w", err)
			}
			fmt.Printf("✅ Private key saved to %s\n", keyOutPrivate)
		}

		if keyOutPublic != "" {
			jwk, err := key.PublicJWK()
			if err != nil {
				return err
			}
			if err := writeJWK(keyOutPublic, jwk, 0644); err != nil {
				return fmt.Errorf("failed to write public key: %w", err)
			}
			fmt.Printf("✅ Public key saved to %s\n", keyOutPublic)
		}

		fmt.Printf("🔑 controller: %s\n", key.Controller)
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active signing key for an issuer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if keyIssuerID == "" {
			return fmt.Errorf("--issuer is required")
		}

		keyStore, err := keys.NewFileStore("")
		if err != nil {
			return fmt.Errorf("failed to open key store: %w", err)
		}
		key, err := keyStore.SigningKeyFor(context.Background(), keyIssuerID)
		if err != nil {
			return err
		}
		if key == nil {
			return fmt.Errorf("no signing key registered for %s", keyIssuerID)
		}

		fmt.Printf("issuer:              %s\n", key.IssuerID)
		fmt.Printf("controller:          %s\n", key.Controller)
		fmt.Printf("verificationMethod:  %s\n", key.VerificationMethod)
		fmt.Printf("publicKeyMultibase:  %s\n", key.PublicKeyMultibase)
		fmt.Printf("created:             %s\n", key.CreatedAt)
		return nil
	},
}

func writeJWK(path string, jwk interface{}, mode os.FileMode) error {
	data, err := json.MarshalIndent(jwk, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenCmd)
	keyCmd.AddCommand(keyShowCmd)

	keyCmd.PersistentFlags().StringVar(&keyIssuerID, "issuer", "", "Issuer identity the key belongs to")
	keyGenCmd.Flags().StringVar(&keyOutPrivate, "out-priv", "", "Optional output path for the private key (JWK format)")
	keyGenCmd.Flags().StringVar(&keyOutPublic, "out-pub", "", "Optional output path for the public key (JWK format)")
}

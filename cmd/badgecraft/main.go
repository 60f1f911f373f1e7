// Package main is the entry point for the BadgeCraft CLI.
package main

import (
	"fmt"
	"os"

	"github.com/badgecraft/badgecraft-core/pkg/issuer"
	"github.com/badgecraft/badgecraft-core/pkg/keys"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/badgecraft/badgecraft-core/pkg/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "badgecraft",
	Short: "BadgeCraft Open Badges CLI",
	Long: `Issue, verify and revoke Open Badges credentials.
Signs OB 3.0 Verifiable Credentials with Ed25519 Data Integrity proofs
and tracks revocation with W3C Status List 2021.`,
}

// baseURL is shared by commands that mint status list ids.
var baseURL string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "https://badges.local",
		"Base URL used to mint status list credential ids")
}

// newService wires the issuance service over the on-disk key and badge
// stores. Every lifecycle command goes through this.
func newService() (*issuer.Service, *statuslist.Registry, error) {
	keyStore, err := keys.NewFileStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open key store: %w", err)
	}
	badgeStore, err := store.NewFileStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open badge store: %w", err)
	}

	registry := statuslist.NewRegistry(badgeStore, baseURL, 0)
	svc, err := issuer.NewService(issuer.Config{
		Keys:   keyStore,
		Store:  badgeStore,
		Status: registry,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, registry, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <assertion-id>",
	Short: "Revoke an issued credential",
	Long: `Flip the credential's bit on its issuer's revocation list.
Verifiers consulting the status list will see the badge as revoked;
the credential document itself is not changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Revoke(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("🚫 revoked %s\n", args[0])
		return nil
	},
}

var reinstateCmd = &cobra.Command{
	Use:   "reinstate <assertion-id>",
	Short: "Reinstate a revoked credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Reinstate(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✅ reinstated %s\n", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <assertion-id>",
	Short: "Show a credential's revocation status",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		revoked, err := svc.Revoked(context.Background(), args[0])
		if err != nil {
			return err
		}
		if revoked {
			fmt.Printf("🚫 %s is revoked\n", args[0])
		} else {
			fmt.Printf("✅ %s is not revoked\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(reinstateCmd)
	rootCmd.AddCommand(statusCmd)
}

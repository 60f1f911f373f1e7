package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/issuer"
	"github.com/spf13/cobra"
)

var (
	issueIssuerID   string
	issueIssuerName string
	issueRecipient  string
	issueAchID      string
	issueAchName    string
	issueAchDesc    string
	issueCriteria   string
	issueExpires    string
	issueOutput     string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed Open Badge credential",
	Long: `Build an OB 3.0 credential for a recipient, sign it with the
issuer's active key and persist it. The credential carries a
StatusList2021Entry so it can later be revoked.`,
	Example: `  badgecraft issue \
    --issuer did:web:badges.example.org \
    --recipient mailto:alice@example.org \
    --achievement-name "Intro to Go" \
    --out badge.json`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if issueIssuerID == "" || issueRecipient == "" || issueAchName == "" {
			return fmt.Errorf("--issuer, --recipient and --achievement-name are required")
		}

		svc, _, err := newService()
		if err != nil {
			return err
		}

		req := issuer.IssueRequest{
			IssuerID:               issueIssuerID,
			IssuerName:             issueIssuerName,
			RecipientID:            issueRecipient,
			AchievementID:          issueAchID,
			AchievementName:        issueAchName,
			AchievementDescription: issueAchDesc,
			CriteriaNarrative:      issueCriteria,
		}
		if issueExpires != "" {
			expires, err := time.Parse(time.RFC3339, issueExpires)
			if err != nil {
				return fmt.Errorf("--expires must be RFC 3339: %w", err)
			}
			req.Expires = expires
		}

		cred, err := svc.Issue(context.Background(), req)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cred, "", "  ")
		if err != nil {
			return err
		}

		if issueOutput != "" {
			if err := os.WriteFile(issueOutput, data, 0644); err != nil {
				return fmt.Errorf("failed to write credential: %w", err)
			}
			fmt.Printf("✅ Credential saved to %s\n", issueOutput)
		} else {
			fmt.Println(string(data))
		}
		fmt.Fprintf(os.Stderr, "🏅 issued %s\n", cred.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)

	issueCmd.Flags().StringVar(&issueIssuerID, "issuer", "", "Issuer identity (must have a signing key)")
	issueCmd.Flags().StringVar(&issueIssuerName, "issuer-name", "", "Human-readable issuer name")
	issueCmd.Flags().StringVar(&issueRecipient, "recipient", "", "Recipient identity, e.g. a DID or mailto: URI")
	issueCmd.Flags().StringVar(&issueAchID, "achievement-id", "", "Achievement (badge class) id")
	issueCmd.Flags().StringVar(&issueAchName, "achievement-name", "", "Achievement name")
	issueCmd.Flags().StringVar(&issueAchDesc, "description", "", "Achievement description")
	issueCmd.Flags().StringVar(&issueCriteria, "criteria", "", "Criteria narrative")
	issueCmd.Flags().StringVar(&issueExpires, "expires", "", "Expiration date (RFC 3339)")
	issueCmd.Flags().StringVar(&issueOutput, "out", "", "Write the signed credential to a file instead of stdout")
}

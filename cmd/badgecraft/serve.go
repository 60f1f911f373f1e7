package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/badgecraft/badgecraft-core/internal/rest"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the badge HTTP API",
	Long: `Serve the badge lifecycle over HTTP: issue, fetch, revoke and
verify credentials, and publish status lists for third-party
verifiers. Keys and badges are read from the local stores.`,
	Example: `  badgecraft serve --addr :8080 --base-url https://badges.example.org`,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, registry, err := newService()
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:         serveAddr,
			Handler:      rest.NewServer(svc, registry).Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		log.Printf("badge API listening on %s", serveAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}

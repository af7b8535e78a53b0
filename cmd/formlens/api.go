package main

import (
	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running formlens server via HTTP.

These commands require a running server (formlens serve).
Use --server to specify a custom server URL.

Examples:
  formlens api health                         # Check server health
  formlens api status                         # Show provider/backend wiring
  formlens api analyze-url https://a.com      # Extract fields from a live form
  formlens api analyze-text "an RSVP form"    # Generate fields from text`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	for _, ep := range endpoints.All() {
		if cmd := ep.Command(getServerURL); cmd != nil {
			apiCmd.AddCommand(cmd)
		}
	}

	rootCmd.AddCommand(apiCmd)
}

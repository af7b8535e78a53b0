package main

import (
	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/api"
	"github.com/chatterforms/formlens/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "formlens",
	Short: "AI form-field extraction service",
	Long: `FormLens turns screenshots, PDFs, live web pages, and plain-text
descriptions into structured form schemas using vision-model extraction.

The pipeline includes:
  - Defensive JSON extraction from free-text model responses
  - Field normalization with type coercion and confidence clamping
  - PDF page conversion with a page-selection gate for large documents
  - Headless-browser rendering for live web forms
  - Form schema generation and backend storage with retry`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.formlens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/config"
	"github.com/chatterforms/formlens/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the formlens server",
	Long: `Start the formlens HTTP server.

The server provides:
  - /health                  - Basic server health check
  - /ready                   - Readiness check (service wiring)
  - /api/analyze/screenshot  - Extract fields from a screenshot or PDF
  - /api/analyze/pdf         - Extract fields from PDF page images
  - /api/analyze/url         - Extract fields from a live web form
  - /api/analyze/text        - Generate fields from a description
  - /api/generate-form       - Build a publishable form schema
  - /api/forms               - Store, submit, and fetch forms

Examples:
  formlens serve                    # Start on default port 8080
  formlens serve --port 3000        # Start on custom port
  formlens serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Load config with hot reload
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}

// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/chatterforms/formlens/internal/analyzer"
	"github.com/chatterforms/formlens/internal/backend"
	"github.com/chatterforms/formlens/internal/config"
	"github.com/chatterforms/formlens/internal/formgen"
	"github.com/chatterforms/formlens/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Analyzer  *analyzer.Analyzer
	Backend   *backend.Client
	Generator *formgen.Generator
	Vision    providers.VisionClient
	Config    *config.Manager
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// AnalyzerFrom extracts the analyzer from context.
func AnalyzerFrom(ctx context.Context) *analyzer.Analyzer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Analyzer
	}
	return nil
}

// BackendFrom extracts the form backend client from context.
func BackendFrom(ctx context.Context) *backend.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Backend
	}
	return nil
}

// GeneratorFrom extracts the form generator from context.
func GeneratorFrom(ctx context.Context) *formgen.Generator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Generator
	}
	return nil
}

// VisionFrom extracts the vision model client from context.
func VisionFrom(ctx context.Context) providers.VisionClient {
	if s := ServicesFrom(ctx); s != nil {
		return s.Vision
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

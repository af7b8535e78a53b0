// Package server wires the analysis pipeline behind an HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chatterforms/formlens/internal/analyzer"
	"github.com/chatterforms/formlens/internal/api"
	"github.com/chatterforms/formlens/internal/backend"
	"github.com/chatterforms/formlens/internal/config"
	"github.com/chatterforms/formlens/internal/convert"
	"github.com/chatterforms/formlens/internal/formgen"
	"github.com/chatterforms/formlens/internal/providers"
	"github.com/chatterforms/formlens/internal/server/endpoints"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// Server is the main formlens HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment. Rebuilt on
	// config reload; guarded by mu.
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger

	// Vision overrides the config-built vision client (used in tests).
	Vision providers.VisionClient
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	if err := s.buildServices(cfg.Vision); err != nil {
		return nil, err
	}

	// Rebuild the service graph when the config file changes.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if err := s.buildServices(cfg.Vision); err != nil {
			s.logger.Error("config reload failed, keeping previous services", "error", err)
			return
		}
		s.logger.Info("services rebuilt from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: s.withServices(mux),
		// Analysis requests hold the connection through browser rendering
		// and model calls.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the service graph from current configuration.
func (s *Server) buildServices(visionOverride providers.VisionClient) error {
	c := s.configMgr.Get()

	vision := visionOverride
	if vision == nil {
		apiKey := config.ResolveEnvVars(c.OpenAI.APIKey)
		if apiKey == "" {
			return errors.New("openai api_key is not configured")
		}
		vision = providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:       apiKey,
			BaseURL:      c.OpenAI.BaseURL,
			DefaultModel: c.OpenAI.Model,
			Timeout:      c.OpenAI.Timeout(),
		})
	}

	converter := convert.NewClient(c.Converter.BaseURL, c.Converter.Timeout(), s.logger)

	be := backend.NewClient(c.Backend.BaseURL, backend.Options{
		StoreAttempts:  c.Backend.StoreAttempts,
		StoreTimeout:   c.Backend.StoreTimeout(),
		StoreRetryBase: c.Backend.StoreBackoff(),
	}, s.logger)

	a := analyzer.New(vision, converter, analyzer.Config{
		Model:       c.OpenAI.Model,
		MaxTokens:   c.Analysis.MaxTokens,
		Temperature: c.Analysis.Temperature,
		MaxPages:    c.Analysis.MaxPages,
		NavTimeout:  c.Analysis.BrowserNavTimeout(),
		SettleDelay: c.Analysis.BrowserSettle(),
	}, s.logger)

	s.mu.Lock()
	s.services = &svcctx.Services{
		Analyzer:  a,
		Backend:   be,
		Generator: formgen.New(),
		Vision:    vision,
		Config:    s.configMgr,
		Logger:    s.logger,
	}
	s.mu.Unlock()
	return nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the server's HTTP handler, for tests that drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) currentServices() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svcs := s.currentServices(); svcs != nil {
			ctx = svcctx.WithServices(ctx, svcs)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the service graph is wired.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.currentServices() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

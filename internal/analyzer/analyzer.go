// Package analyzer turns screenshots, PDFs, URLs, and text descriptions into
// normalized form-field extractions. Each source-specific analyzer composes
// the same spine: render or fetch the source, call the vision model, dig the
// JSON out of the response, and coerce it into the field schema.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chatterforms/formlens/internal/convert"
	"github.com/chatterforms/formlens/internal/extract"
	"github.com/chatterforms/formlens/internal/providers"
	"github.com/chatterforms/formlens/internal/schema"
)

// ErrNoFields is returned when a model response parses cleanly but contains
// no usable fields, or does not parse at all on paths without a canned
// fallback.
var ErrNoFields = errors.New("no form fields detected")

// Config holds analyzer tuning shared across sources.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64

	// MaxPages caps one PDF analysis; above it the caller must select pages.
	MaxPages int

	// Browser settings for URL analysis.
	NavTimeout  time.Duration
	SettleDelay time.Duration
}

// Analyzer dispatches extraction work to the vision model.
type Analyzer struct {
	vision    providers.VisionClient
	converter *convert.Client
	cfg       Config
	logger    *slog.Logger
	guard     *Guard
}

// New creates an Analyzer.
func New(vision providers.VisionClient, converter *convert.Client, cfg Config, logger *slog.Logger) *Analyzer {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		vision:    vision,
		converter: converter,
		cfg:       cfg,
		logger:    logger,
		guard:     NewGuard(),
	}
}

// extractFields runs one model call and normalizes its output: chat →
// JSON extraction → field validation.
func (a *Analyzer) extractFields(ctx context.Context, prompt string, images []string, opts schema.ValidateOptions) ([]schema.FieldExtraction, error) {
	req := &providers.ChatRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		RequestID:   uuid.New().String(),
		Messages: []providers.Message{
			{Role: "user", Content: prompt, Images: images},
		},
	}

	start := time.Now()
	result, err := a.vision.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision model call failed: %w", err)
	}
	a.logger.Debug("vision model responded",
		"request_id", req.RequestID,
		"tokens", result.TotalTokens,
		"duration", time.Since(start))

	raw, err := extract.Array(result.Content)
	if err != nil {
		return nil, err
	}

	return schema.ValidateFields(raw, opts), nil
}

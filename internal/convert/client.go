// Package convert talks to the external PDF-to-images conversion service.
// The service rasterizes PDF pages into individually addressable images and
// keeps them under a job UUID until cleanup.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// PageImage describes one converted page.
type PageImage struct {
	Page     int    `json:"page"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// UploadResult is the conversion service's response to a PDF upload.
type UploadResult struct {
	Success    bool        `json:"success"`
	UUID       string      `json:"uuid"`
	TotalPages int         `json:"totalPages"`
	Images     []PageImage `json:"images"`
	Error      string      `json:"error,omitempty"`
}

// Client is an HTTP client for the conversion service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new conversion service client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Upload sends raw PDF bytes to the conversion service and returns the
// converted page manifest.
func (c *Client) Upload(ctx context.Context, pdf []byte, filename string) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, fmt.Errorf("failed to write PDF to form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversion service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "conversion service reported failure"
		}
		return nil, fmt.Errorf("conversion failed: %s", msg)
	}

	return &result, nil
}

// FetchImage downloads one converted page image.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch error (status %d)", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Cleanup asks the conversion service to delete the temporary page images
// for a job. Best effort: failures are logged, never surfaced.
func (c *Client) Cleanup(ctx context.Context, uuid string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/cleanup/"+uuid, nil)
	if err != nil {
		c.logger.Warn("cleanup request creation failed", "uuid", uuid, "error", err)
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("cleanup call failed", "uuid", uuid, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Warn("cleanup call rejected", "uuid", uuid, "status", resp.StatusCode)
	}
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

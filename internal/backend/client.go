// Package backend is the HTTP client for the form storage and submission
// service. Form storage is the one retried operation; everything else is a
// single-attempt JSON passthrough.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/chatterforms/formlens/internal/schema"
)

// Options tunes the client. Zero values fall back to the defaults below.
type Options struct {
	// Store retry policy. Each attempt gets its own timeout; the delay
	// between attempts doubles starting from RetryBaseDelay.
	StoreAttempts  int
	StoreTimeout   time.Duration
	StoreRetryBase time.Duration
	RequestTimeout time.Duration
}

const (
	defaultStoreAttempts  = 3
	defaultStoreTimeout   = 30 * time.Second
	defaultStoreRetryBase = 2 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// Client talks to the form backend service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	opts       Options
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, opts Options, logger *slog.Logger) *Client {
	if opts.StoreAttempts <= 0 {
		opts.StoreAttempts = defaultStoreAttempts
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.StoreRetryBase <= 0 {
		opts.StoreRetryBase = defaultStoreRetryBase
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		logger:     logger,
		opts:       opts,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.baseURL }

// StoreRequest is the payload of one form-structure store.
type StoreRequest struct {
	FormData *schema.FormSchema `json:"formData"`
	UserID   string             `json:"userId,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

// StoreResult reports the outcome of a store. Retry exhaustion is reported
// here, not as a returned error: Success false with Error set.
type StoreResult struct {
	Success bool   `json:"success"`
	FormID  string `json:"formId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StoreFormStructure persists a form schema, retrying with exponential
// backoff. Each attempt runs under its own timeout; the delay between
// attempts doubles. The returned result is always non-nil.
func (c *Client) StoreFormStructure(ctx context.Context, req *StoreRequest) *StoreResult {
	body, err := json.Marshal(req)
	if err != nil {
		return &StoreResult{Success: false, Error: fmt.Sprintf("encoding store request: %v", err)}
	}

	var result StoreResult
	attempt := 0
	err = retry.Do(
		func() error {
			attempt++
			attemptCtx, cancel := context.WithTimeout(ctx, c.opts.StoreTimeout)
			defer cancel()

			res, err := c.storeOnce(attemptCtx, body)
			if err != nil {
				c.logger.Warn("form store attempt failed",
					"attempt", attempt,
					"error", err)
				return err
			}
			result = *res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.opts.StoreAttempts)),
		retry.Delay(c.opts.StoreRetryBase),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return &StoreResult{
			Success: false,
			Error:   fmt.Sprintf("form storage failed after %d attempts: %v", c.opts.StoreAttempts, err),
		}
	}
	return &result
}

func (c *Client) storeOnce(ctx context.Context, body []byte) (*StoreResult, error) {
	var result StoreResult
	if err := c.postJSON(ctx, "/store-form", body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("backend rejected store: %s", result.Error)
	}
	return &result, nil
}

// SubmitResult is the backend's response to a form submission.
type SubmitResult struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SubmitForm posts one set of responses for a published form. Single
// attempt, no retry.
func (c *Client) SubmitForm(ctx context.Context, formID string, responses map[string]any) (*SubmitResult, error) {
	body, err := json.Marshal(map[string]any{
		"formId":    formID,
		"responses": responses,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}

	var result SubmitResult
	if err := c.postJSON(ctx, "/submit-form", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchForm retrieves a stored form schema by ID.
func (c *Client) FetchForm(ctx context.Context, formID string) (*schema.FormSchema, error) {
	var form schema.FormSchema
	if err := c.getJSON(ctx, "/api/forms/"+formID, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// FetchAnalytics retrieves submission analytics for a form. The payload
// shape is owned by the backend and passed through untouched.
func (c *Client) FetchAnalytics(ctx context.Context, formID string) (map[string]any, error) {
	var analytics map[string]any
	if err := c.getJSON(ctx, "/api/forms/"+formID+"/analytics", &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading backend response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chatterforms/formlens/internal/browser"
	"github.com/chatterforms/formlens/internal/extract"
	"github.com/chatterforms/formlens/internal/schema"
)

// URLAnalysisError is the structured failure payload for URL analysis.
// The guidance lists are shown to the user verbatim, so they are part of
// the contract, not just logging.
type URLAnalysisError struct {
	Details         string   `json:"details"`
	Suggestion      string   `json:"suggestion"`
	Troubleshooting []string `json:"troubleshooting"`
	Alternatives    []string `json:"alternatives"`
	Err             error    `json:"-"`
}

func (e *URLAnalysisError) Error() string {
	return fmt.Sprintf("URL analysis failed: %s", e.Details)
}

func (e *URLAnalysisError) Unwrap() error {
	return e.Err
}

func newURLAnalysisError(err error) *URLAnalysisError {
	return &URLAnalysisError{
		Details:    err.Error(),
		Suggestion: "Make sure the URL points to a publicly reachable page that displays a form.",
		Troubleshooting: []string{
			"Check that the URL is spelled correctly and loads in a normal browser",
			"The page may require login; forms behind authentication cannot be analyzed",
			"The page may take too long to load; try again in a moment",
			"Some sites block automated browsers",
		},
		Alternatives: []string{
			"Take a screenshot of the form and upload the image instead",
			"If you have the form as a PDF, upload the PDF",
			"Describe the form in words and let the fields be generated",
		},
		Err: err,
	}
}

// AnalyzeURL renders a web form in a headless browser, captures a full-page
// screenshot, and runs vision extraction over it. Every failure is wrapped
// into a URLAnalysisError carrying user guidance. The browser is torn down
// in all paths.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string, additionalContext string) ([]schema.FieldExtraction, error) {
	release, err := a.guard.Acquire(KindURL)
	if err != nil {
		return nil, err
	}
	defer release()

	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, newURLAnalysisError(err)
	}

	session, err := browser.NewSession(ctx, browser.Options{
		NavTimeout:  a.cfg.NavTimeout,
		SettleDelay: a.cfg.SettleDelay,
	})
	if err != nil {
		return nil, newURLAnalysisError(err)
	}
	defer session.Close()

	shot, err := session.CapturePage(ctx, target)
	if err != nil {
		return nil, newURLAnalysisError(err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(shot)
	fields, err := a.extractFields(ctx, urlPrompt, []string{dataURL}, schema.DefaultValidateOptions())
	if err != nil {
		if errors.Is(err, extract.ErrNoJSON) {
			return nil, newURLAnalysisError(fmt.Errorf("no form fields detected on the page"))
		}
		return nil, newURLAnalysisError(err)
	}
	if len(fields) == 0 {
		return nil, newURLAnalysisError(fmt.Errorf("no form fields detected on the page"))
	}

	attachContext(fields, additionalContext)
	return fields, nil
}

// NormalizeURL validates a user-supplied URL, defaulting to https:// when no
// scheme is given and rejecting non-http(s) schemes.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty URL")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q; only http and https are allowed", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL has no host")
	}
	return u.String(), nil
}

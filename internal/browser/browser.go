// Package browser renders web pages in a headless browser and captures
// full-page screenshots. A Session is scoped to one analysis call: acquired
// on entry, released in a deferred cleanup path, never pooled or reused.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// userAgent mimics a desktop Chrome so forms render their full layout.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// Options configures one rendering session.
type Options struct {
	// NavTimeout bounds navigation plus load waiting.
	NavTimeout time.Duration
	// SettleDelay is a fixed extra wait after load so client-side
	// rendering can finish.
	SettleDelay time.Duration
}

// Session owns one headless browser process.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opts     Options
}

// NewSession launches a headless browser. Callers must Close the session,
// typically via defer, even when later steps fail.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout == 0 {
		opts.NavTimeout = 45 * time.Second
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 4 * time.Second
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Session{launcher: l, browser: b, opts: opts}, nil
}

// Close tears down the browser process. Safe to call after partial failures.
func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
}

// CapturePage navigates to url, waits for the network to go idle plus the
// settle delay, scrolls the full page to trigger lazy-loaded content, and
// returns a full-page PNG screenshot.
func (s *Session) CapturePage(ctx context.Context, url string) ([]byte, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	nav := page.Timeout(s.opts.NavTimeout)
	if err := nav.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load wait failed: %w", err)
	}
	// Network-idle wait is best effort: some pages poll forever.
	_ = nav.WaitIdle(s.opts.NavTimeout)

	if err := sleepCtx(ctx, s.opts.SettleDelay); err != nil {
		return nil, err
	}

	// Scroll to the bottom and back so lazy-loaded sections render.
	if err := page.Mouse.Scroll(0, float64(viewportHeight*10), 10); err == nil {
		_ = sleepCtx(ctx, time.Second)
	}
	if err := page.Mouse.Scroll(0, -float64(viewportHeight*10), 10); err == nil {
		_ = sleepCtx(ctx, 500*time.Millisecond)
	}

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shot, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

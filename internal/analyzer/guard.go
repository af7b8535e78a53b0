package analyzer

import (
	"errors"
	"fmt"
	"sync"
)

// Kind identifies an analysis source for the in-flight guard.
type Kind string

const (
	KindScreenshot Kind = "screenshot"
	KindPDF        Kind = "pdf"
	KindURL        Kind = "url"
	KindText       Kind = "text"
)

// ErrAnalysisInFlight is returned when an analysis of the same kind is
// already running. Rapid repeated UI actions coalesce onto the running one.
var ErrAnalysisInFlight = errors.New("analysis already in progress")

// Guard provides at-most-one-in-flight semantics per analysis kind.
type Guard struct {
	mu       sync.Mutex
	inFlight map[Kind]bool
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{inFlight: make(map[Kind]bool)}
}

// Acquire claims the latch for kind. The returned release function must be
// called when the analysis finishes, typically via defer.
func (g *Guard) Acquire(kind Kind) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight[kind] {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisInFlight, kind)
	}
	g.inFlight[kind] = true

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.inFlight[kind] = false
	}, nil
}

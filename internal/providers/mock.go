package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a VisionClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // fail after N requests (0 = never)
	ResponseText string

	// Responder, when set, computes the response per request.
	Responder func(req *ChatRequest) (string, error)

	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns how many Chat calls have been made.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// Chat returns the configured response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := c.requestCount.Add(1)
	start := time.Now()

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail {
		return nil, fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("mock client failing after %d requests", c.FailAfter)
	}

	content := c.ResponseText
	if c.Responder != nil {
		var err error
		content, err = c.Responder(req)
		if err != nil {
			return nil, err
		}
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	return &ChatResult{
		Content:       content,
		ExecutionTime: time.Since(start),
		Provider:      MockClientName,
		ModelUsed:     model,
		RequestID:     fmt.Sprintf("mock-%d", count),
	}, nil
}

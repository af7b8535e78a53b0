// Package providers wraps the vision/text model APIs behind a small client
// interface so analyzers stay independent of any one vendor SDK.
package providers

import (
	"context"
	"time"
)

// VisionClient is the interface for chat/completion requests, including
// multimodal requests that attach images.
type VisionClient interface {
	// Chat sends a chat completion request and returns the raw text content.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// Message represents one chat message. Images are data URLs
// (data:image/...;base64,...) attached to the message as image_url parts.
type Message struct {
	Role    string   `json:"role"` // "system", "user", "assistant"
	Content string   `json:"content"`
	Images  []string `json:"-"`
}

// ChatRequest is a request to the model.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (client default if empty)
	Model string `json:"model,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the response from a model call.
type ChatResult struct {
	Content string `json:"content"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`
}

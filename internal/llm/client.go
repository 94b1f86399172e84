package llm

import (
	"context"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Query sends a free-text prompt and returns the model's answer along
	// with the token count the provider reported.
	Query(ctx context.Context, prompt string, opts QueryOptions) (QueryResponse, error)
}

// QueryOptions tunes a single model invocation. Zero values fall back to
// provider defaults.
type QueryOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// QueryResponse contains the model's answer.
type QueryResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration supplied by the caller.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
}

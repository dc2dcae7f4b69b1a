package llm

import "context"

type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a per-request provider bound to the caller's API key.
type Factory func(apiKey string) Provider

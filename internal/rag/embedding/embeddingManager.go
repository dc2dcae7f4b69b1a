package embedding

import "context"

// Mode selects the embedding task variant: vectors optimized for being
// indexed (documents) vs being used as a search query.
type Mode string

const (
	ModeDocument Mode = "RETRIEVAL_DOCUMENT"
	ModeQuery    Mode = "RETRIEVAL_QUERY"
)

type Embedder interface {
	// Embed returns one vector per input text, order-preserving.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)
}

// Factory builds a per-request embedder bound to the caller's API key.
// Keys arrive with each request and are never stored long-term.
type Factory func(apiKey string) Embedder

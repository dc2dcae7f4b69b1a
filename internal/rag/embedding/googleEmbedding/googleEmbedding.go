package googleEmbedding

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
	"github.com/akolanti/CareerRAG/internal/rag/googleStatus"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("google_embedding")
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	apiKey string
	model  string
}

// NewEmbedder returns an embedder bound to the caller's API key. The genai
// client itself is created lazily on the first call - the key check happens
// before any network traffic.
func NewEmbedder(apiKey string) embedding.Embedder {
	return &client{apiKey: apiKey, model: config.GoogleEmbeddingModel}
}

func (c *client) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required for embeddings", apperrors.ErrAuth)
	}
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	genAi, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		log.Error("Error creating Google Embedding client", "error", err)
		return nil, googleStatus.Classify(err)
	}

	embedConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             string(mode),
	}

	var result *genai.EmbedContentResponse
	for attempt := 0; attempt < config.EmbeddingRetryAttempts; attempt++ {
		result, err = genAi.Models.EmbedContent(ctx, c.model, getContent(texts), embedConfig)
		if err == nil {
			break
		}
		if !googleStatus.IsRetriable(err) {
			log.Error("Error getting Embeddings from Google", "error", err.Error())
			return nil, googleStatus.Classify(err)
		}

		wait := config.EmbeddingRetryBaseWait << attempt
		log.Warn("Embedding call throttled, retrying", "attempt", attempt+1, "wait", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		log.Error("Embedding retries exhausted", "error", err.Error())
		return nil, googleStatus.Classify(err)
	}

	embeddingResults := make([][]float32, 0, len(result.Embeddings))
	for _, r := range result.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	if len(embeddingResults) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", apperrors.ErrProvider, len(embeddingResults), len(texts))
	}
	return embeddingResults, nil
}

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

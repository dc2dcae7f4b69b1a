package gemini

import (
	"fmt"

	"context"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/rag/googleStatus"
	"github.com/akolanti/CareerRAG/internal/rag/llm"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("llm_gemini")

type llmClient struct {
	apiKey    string
	modelName string
}

func NewProvider(apiKey string) llm.Provider {
	return &llmClient{apiKey: apiKey, modelName: config.GeminiModelName}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key is required for generation", apperrors.ErrAuth)
	}
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		log.Error("Error creating Gemini client", "error", err)
		return "", googleStatus.Classify(err)
	}

	result, err := client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		log.Error("Gemini API Error", "error", err)
		return "", googleStatus.Classify(err)
	}
	return result.Text(), nil
}

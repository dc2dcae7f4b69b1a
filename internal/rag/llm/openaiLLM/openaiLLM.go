package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/rag/llm"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type llmClient struct {
	apiKey    string
	modelName string
}

// NewProvider is the chat-completions alternative behind the same Provider
// contract. Selected via config.LLMProviderName; the caller's key is still
// supplied per request.
func NewProvider(apiKey string) llm.Provider {
	return &llmClient{apiKey: apiKey, modelName: config.OpenAIModelName}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key is required for generation", apperrors.ErrAuth)
	}
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	client := openai.NewClient(option.WithAPIKey(c.apiKey))
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(c.modelName),
	})
	if err != nil {
		log.Error("OpenAI API Error", "error", err)
		return "", classify(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", apperrors.ErrProvider)
	}
	return completion.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", apperrors.ErrAuth, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", apperrors.ErrQuota, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrProvider, err.Error())
}

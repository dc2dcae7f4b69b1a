package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/CareerRAG/internal/api"
	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/internal/metrics"
	"github.com/akolanti/CareerRAG/internal/rag/collection"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
	"github.com/akolanti/CareerRAG/internal/rag/llm"
	"github.com/akolanti/CareerRAG/internal/rag/vectorDB"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

// Service is the public contract the handlers call - they never touch the
// vector store or the LLM clients directly.
type Service interface {
	// Answer runs the full ask pipeline. The returned status is 400 only for
	// precondition failures; modeled provider errors come back as 200 with
	// the explanation in the answer text.
	Answer(ctx context.Context, request api.AskRequest) (string, int)
	DeleteUniversity(ctx context.Context, university string) error
}

type service struct {
	vectorDB        vectorDB.DataProcessor
	collections     *collection.Manager
	embedderFactory embedding.Factory
	llmFactory      llm.Factory
	registry        *registry.Registry
	logger          *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, reg *registry.Registry, embedderFactory embedding.Factory, llmFactory llm.Factory) Service {
	return &service{
		vectorDB:        vector,
		collections:     collection.NewManager(vector, reg, embedderFactory),
		embedderFactory: embedderFactory,
		llmFactory:      llmFactory,
		registry:        reg,
		logger:          logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, request api.AskRequest) (string, int) {
	if request.Query == "" {
		return MsgMissingQuery, http.StatusBadRequest
	}
	if request.APIKey == "" {
		return MsgMissingAPIKey, http.StatusBadRequest
	}
	if request.UniversityName == "" {
		return MsgMissingUniversity, http.StatusBadRequest
	}
	if _, ok := s.registry.Get(request.UniversityName); !ok {
		return MsgUnknownUniversity, http.StatusBadRequest
	}

	return s.processAsk(ctx, request), http.StatusOK
}

// processAsk is the outer failure boundary: whatever escapes collection
// setup is mapped to a user-readable message, never a transport error.
func (s *service) processAsk(ctx context.Context, request api.AskRequest) string {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "university", request.UniversityName)

	handle, err := s.collections.GetOrCreate(ctx, request.APIKey, request.UniversityName)
	if err != nil {
		inMethodLogger.Error("Collection setup failed", "error", err)
		return setupFailureMessage(err)
	}

	passages, queryVector := s.executeRetrievalStep(ctx, inMethodLogger, handle, request.Query)

	if queryVector != nil {
		if cached, found := s.executeCacheCheckStep(ctx, request.UniversityName, queryVector); found {
			return cached
		}
	}

	prompt := buildPrompt(request.UniversityName, request.CustomPrompt, request.Query, passages)

	answer, err := s.executeLLMStep(ctx, request.APIKey, prompt)
	if err != nil {
		inMethodLogger.Error("Generation failed", "error", err)
		return generationFailureMessage(err)
	}

	answer += formatSourcesBlock(collectSources(passages))

	if queryVector != nil {
		// background cache save - the request does not wait on it
		saveCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.vectorDB.SaveToCache(saveCtx, request.UniversityName, newCacheID(), queryVector, answer); err != nil {
				s.logger.Error("Failed to save answer to cache", "error", err)
			}
		}()
	}

	return answer
}

func (s *service) DeleteUniversity(ctx context.Context, university string) error {
	if err := s.registry.Delete(university); err != nil {
		return err
	}

	collectionName := collection.CollectionName(university)
	if err := s.vectorDB.DeleteCollection(ctx, collectionName); err != nil {
		// the registry entry is gone either way - the collection is orphaned,
		// not leaked, and gets recreated empty on re-upload
		s.logger.Warn("Could not delete collection", "university", university, "error", err)
	}
	if err := s.vectorDB.PurgeCache(ctx, university); err != nil {
		s.logger.Warn("Could not purge answer cache", "university", university, "error", err)
	}

	s.logger.Info("Successfully deleted university", "name", university)
	return nil
}

// A retrieval failure degrades to zero passages rather than failing the ask.
func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, handle *collection.Handle, query string) ([]recordModel.Passage, []float32) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	passages, queryVector, err := handle.Query(ctx, query, config.TopKPassages)
	if err != nil {
		log.Error("Collection query error", "error", err)
		return nil, queryVector
	}
	return passages, queryVector
}

func (s *service) executeCacheCheckStep(ctx context.Context, university string, queryVector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, _ := s.vectorDB.GetCachedAnswer(ctx, university, queryVector)
	return answer, found
}

func (s *service) executeLLMStep(ctx context.Context, apiKey string, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmFactory(apiKey).Generate(ctx, prompt)
}

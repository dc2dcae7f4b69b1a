package rag_test

import (
	"context"

	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
	"github.com/akolanti/CareerRAG/internal/rag/llm"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context, name string) error
	OnCollectionExists func(ctx context.Context, name string) (bool, error)
	OnDeleteCollection func(ctx context.Context, name string) error
	OnCount            func(ctx context.Context, name string) (uint64, error)
	OnUpsertBatch      func(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error
	OnSearch           func(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error)
	OnGetCachedAnswer  func(ctx context.Context, university string, queryVector []float32) (string, bool, error)
	OnSaveToCache      func(ctx context.Context, university string, id string, vector []float32, answer string) error
	OnPurgeCache       func(ctx context.Context, university string) error
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	if m.OnCollectionExists != nil {
		return m.OnCollectionExists(ctx, name)
	}
	return true, nil
}

func (m *MockVectorDB) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) Count(ctx context.Context, name string) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, name)
	}
	return 1, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, docs, vectors)
	}
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, name, vector, limit)
	}
	return []recordModel.Passage{{Content: "default context"}}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, university string, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, university, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, university, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, university, id, v, a)
	}
	return nil
}

func (m *MockVectorDB) PurgeCache(ctx context.Context, university string) error {
	if m.OnPurgeCache != nil {
		return m.OnPurgeCache(ctx, university)
	}
	return nil
}

type MockEmbedder struct {
	OnEmbed func(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, texts, mode)
	}
	// Return dummy vectors matching input size
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

func (m *MockEmbedder) Factory() embedding.Factory {
	return func(apiKey string) embedding.Embedder { return m }
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) Factory() llm.Factory {
	return func(apiKey string) llm.Provider { return m }
}

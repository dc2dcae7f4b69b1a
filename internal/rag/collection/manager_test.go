package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
)

// --- Mocks ---

type mockVectorDB struct {
	OnEnsureCollection func(ctx context.Context, name string) error
	OnCollectionExists func(ctx context.Context, name string) (bool, error)
	OnCount            func(ctx context.Context, name string) (uint64, error)
	OnUpsertBatch      func(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error
	OnSearch           func(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error)
}

func (m *mockVectorDB) EnsureCollection(ctx context.Context, name string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name)
	}
	return nil
}

func (m *mockVectorDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	if m.OnCollectionExists != nil {
		return m.OnCollectionExists(ctx, name)
	}
	return false, nil
}

func (m *mockVectorDB) DeleteCollection(ctx context.Context, name string) error { return nil }

func (m *mockVectorDB) Count(ctx context.Context, name string) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, name)
	}
	return 0, nil
}

func (m *mockVectorDB) UpsertBatch(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, docs, vectors)
	}
	return nil
}

func (m *mockVectorDB) Search(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, name, vector, limit)
	}
	return nil, nil
}

func (m *mockVectorDB) GetCachedAnswer(ctx context.Context, university string, v []float32) (string, bool, error) {
	return "", false, nil
}

func (m *mockVectorDB) SaveToCache(ctx context.Context, university, id string, v []float32, a string) error {
	return nil
}

func (m *mockVectorDB) PurgeCache(ctx context.Context, university string) error { return nil }

type mockEmbedder struct {
	OnEmbed func(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, texts, mode)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func embedderFactory(e *mockEmbedder) embedding.Factory {
	return func(apiKey string) embedding.Embedder { return e }
}

// --- Tests ---

func TestCollectionName(t *testing.T) {
	tests := []struct {
		university string
		expected   string
	}{
		{"Test University", "uni_test_university"},
		{"UC Berkeley!", "uni_uc_berkeley"},
		{"  Spaced   Out  ", "uni_spaced_out"},
		{"already_safe-1.0", "uni_already_safe-1.0"},
		{"Ünïcode Univ", "uni_ncode_univ"},
	}

	for _, tt := range tests {
		if got := CollectionName(tt.university); got != tt.expected {
			t.Errorf("CollectionName(%q) = %q, want %q", tt.university, got, tt.expected)
		}
	}
}

func TestBuildDocuments_DepartmentFilter(t *testing.T) {
	records := []recordModel.Record{
		{RecID: "1", DeptID: "0", RecContent: "first", RecURL: "u1"},
		{RecID: "2", DeptID: "3", RecContent: "ignored"},
		{RecID: "3", DeptID: "0", RecContent: "second", RecURL: "u2"},
	}

	docs := BuildDocuments("Test University", records)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].DocKey != "Test University_0" || docs[1].DocKey != "Test University_1" {
		t.Errorf("doc keys wrong: %q, %q", docs[0].DocKey, docs[1].DocKey)
	}
	if docs[0].Content != "first" || docs[1].Content != "second" {
		t.Errorf("content order wrong: %q, %q", docs[0].Content, docs[1].Content)
	}
}

func TestGetOrCreate_PopulatesEmptyCollection(t *testing.T) {
	reg := registry.InitRegistry()
	reg.Add(&recordModel.Dataset{
		Name: "Test University",
		Records: []recordModel.Record{
			{RecID: "1", DeptID: "0", RecContent: "content one"},
			{RecID: "2", DeptID: "0", RecContent: "content two"},
		},
	})

	var upsertCalls int
	var upsertedDocs []recordModel.IndexedDocument
	var embedMode embedding.Mode

	db := &mockVectorDB{
		OnCollectionExists: func(ctx context.Context, name string) (bool, error) { return false, nil },
		OnCount:            func(ctx context.Context, name string) (uint64, error) { return 0, nil },
		OnUpsertBatch: func(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
			upsertCalls++
			upsertedDocs = docs
			return nil
		},
	}
	emb := &mockEmbedder{
		OnEmbed: func(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
			embedMode = mode
			return make([][]float32, len(texts)), nil
		},
	}

	m := NewManager(db, reg, embedderFactory(emb))
	handle, err := m.GetOrCreate(context.Background(), "key", "Test University")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if handle.Name != "uni_test_university" {
		t.Errorf("handle name = %q", handle.Name)
	}
	if upsertCalls != 1 {
		t.Errorf("expected 1 upsert, got %d", upsertCalls)
	}
	if len(upsertedDocs) != 2 {
		t.Errorf("expected 2 docs upserted, got %d", len(upsertedDocs))
	}
	if embedMode != embedding.ModeDocument {
		t.Errorf("documents must embed in document mode, got %v", embedMode)
	}
}

func TestGetOrCreate_SkipsPopulatedCollection(t *testing.T) {
	reg := registry.InitRegistry()
	reg.Add(&recordModel.Dataset{
		Name:    "Test University",
		Records: []recordModel.Record{{DeptID: "0", RecContent: "content"}},
	})

	upsertCalled := false
	db := &mockVectorDB{
		OnCollectionExists: func(ctx context.Context, name string) (bool, error) { return true, nil },
		OnCount:            func(ctx context.Context, name string) (uint64, error) { return 5, nil },
		OnUpsertBatch: func(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
			upsertCalled = true
			return nil
		},
	}

	m := NewManager(db, reg, embedderFactory(&mockEmbedder{}))
	if _, err := m.GetOrCreate(context.Background(), "key", "Test University"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if upsertCalled {
		t.Error("a non-empty collection must not be repopulated")
	}
}

func TestGetOrCreate_StorageFailureIsFatal(t *testing.T) {
	reg := registry.InitRegistry()
	db := &mockVectorDB{
		OnCollectionExists: func(ctx context.Context, name string) (bool, error) { return false, nil },
		OnEnsureCollection: func(ctx context.Context, name string) error {
			return errors.New("connection refused")
		},
	}

	m := NewManager(db, reg, embedderFactory(&mockEmbedder{}))
	_, err := m.GetOrCreate(context.Background(), "key", "Test University")
	if err == nil {
		t.Fatal("expected error when the collection cannot be created")
	}
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestGetOrCreate_PopulateFailureIsNotFatal(t *testing.T) {
	reg := registry.InitRegistry()
	reg.Add(&recordModel.Dataset{
		Name:    "Test University",
		Records: []recordModel.Record{{DeptID: "0", RecContent: "content"}},
	})

	db := &mockVectorDB{
		OnUpsertBatch: func(ctx context.Context, name string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
			return errors.New("disk full")
		},
	}

	m := NewManager(db, reg, embedderFactory(&mockEmbedder{}))
	handle, err := m.GetOrCreate(context.Background(), "key", "Test University")
	if err != nil {
		t.Fatalf("a failed populate must not fail the request: %v", err)
	}
	if handle == nil {
		t.Fatal("expected a usable handle")
	}
}

func TestHandle_Query(t *testing.T) {
	var gotMode embedding.Mode
	var gotLimit uint64

	db := &mockVectorDB{
		OnSearch: func(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error) {
			gotLimit = limit
			return []recordModel.Passage{{Content: "top"}, {Content: "second"}}, nil
		},
	}
	emb := &mockEmbedder{
		OnEmbed: func(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
			gotMode = mode
			return [][]float32{{0.5}}, nil
		},
	}

	h := &Handle{Name: "uni_test_university", db: db, embedder: emb}
	passages, vector, err := h.Query(context.Background(), "question", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if gotMode != embedding.ModeQuery {
		t.Errorf("questions must embed in query mode, got %v", gotMode)
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want 10", gotLimit)
	}
	if len(passages) != 2 || passages[0].Content != "top" {
		t.Errorf("passages wrong: %+v", passages)
	}
	if len(vector) != 1 {
		t.Errorf("query vector should be returned, got %v", vector)
	}
}

func TestHandle_Query_SearchFailureKeepsVector(t *testing.T) {
	db := &mockVectorDB{
		OnSearch: func(ctx context.Context, name string, vector []float32, limit uint64) ([]recordModel.Passage, error) {
			return nil, errors.New("db timeout")
		},
	}
	emb := &mockEmbedder{
		OnEmbed: func(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error) {
			return [][]float32{{0.9}}, nil
		},
	}

	h := &Handle{Name: "uni_test_university", db: db, embedder: emb}
	_, vector, err := h.Query(context.Background(), "question", 10)
	if err == nil {
		t.Fatal("expected search error")
	}
	if len(vector) != 1 {
		t.Error("the query vector must survive a failed search for cache use")
	}
}

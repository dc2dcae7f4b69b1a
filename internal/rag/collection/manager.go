package collection

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/internal/rag/embedding"
	"github.com/akolanti/CareerRAG/internal/rag/vectorDB"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

// Manager hands out per-university collection handles. Population happens
// at most once per collection lifetime: only while the collection reports
// zero stored vectors, and only under that university's named lock.
type Manager struct {
	db              vectorDB.DataProcessor
	registry        *registry.Registry
	embedderFactory embedding.Factory
	logger          *logger_i.Logger
}

// Handle is one university's collection with the caller's embedder attached.
type Handle struct {
	Name     string
	db       vectorDB.DataProcessor
	embedder embedding.Embedder
}

func NewManager(db vectorDB.DataProcessor, reg *registry.Registry, embedderFactory embedding.Factory) *Manager {
	return &Manager{
		db:              db,
		registry:        reg,
		embedderFactory: embedderFactory,
		logger:          logger_i.NewLogger("CollectionManager"),
	}
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_.-]`)

// CollectionName derives the deterministic collection name from a sanitized
// form of the university name.
func CollectionName(university string) string {
	name := strings.ToLower(university)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return "uni_" + name
}

// GetOrCreate retrieves or creates the university's collection and, if the
// registry holds data for it and the collection is still empty, populates it
// with one document per default-department record. Failure to obtain the
// collection at all is fatal for the request; a failed upsert is logged and
// the query step degrades to zero retrieved passages.
func (m *Manager) GetOrCreate(ctx context.Context, apiKey string, university string) (*Handle, error) {
	log := m.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "university", university)
	collectionName := CollectionName(university)

	// keys are per-request: every handle gets a fresh embedder
	embedFn := m.embedderFactory(apiKey)

	lock := m.registry.UniversityLock(university)
	lock.Lock()
	defer lock.Unlock()

	exists, err := m.db.CollectionExists(ctx, collectionName)
	if err != nil || !exists {
		log.Info("Creating collection", "name", collectionName)
		if err := m.db.EnsureCollection(ctx, collectionName); err != nil {
			log.Error("Collection error", "error", err)
			return nil, fmt.Errorf("%w: database initialization failed for %s", apperrors.ErrStorage, university)
		}
	} else {
		log.Debug("Retrieved existing collection", "name", collectionName)
	}

	handle := &Handle{Name: collectionName, db: m.db, embedder: embedFn}

	dataset, hasData := m.registry.Get(university)
	if !hasData {
		return handle, nil
	}

	count, err := m.db.Count(ctx, collectionName)
	if err != nil {
		log.Error("Collection count error", "error", err)
		return nil, fmt.Errorf("%w: database initialization failed for %s", apperrors.ErrStorage, university)
	}
	if count > 0 {
		log.Debug("Collection already contains documents", "count", count)
		return handle, nil
	}

	docs := BuildDocuments(university, dataset.Records)
	if len(docs) == 0 {
		return handle, nil
	}

	log.Info("Adding documents to collection", "count", len(docs))
	if err := m.populate(ctx, collectionName, docs, embedFn); err != nil {
		// the collection stays empty and retrieval degrades to zero passages
		log.Error("Error adding documents", "error", err)
	}
	return handle, nil
}

func (m *Manager) populate(ctx context.Context, collectionName string, docs []recordModel.IndexedDocument, embedFn embedding.Embedder) error {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.Content)
	}

	vectors, err := embedFn.Embed(ctx, texts, embedding.ModeDocument)
	if err != nil {
		return fmt.Errorf("embedding documents failed: %w", err)
	}
	return m.db.UpsertBatch(ctx, collectionName, docs, vectors)
}

// BuildDocuments filters a dataset to the default department and maps each
// row onto one document + metadata pair. Doc keys are "{university}_{i}"
// with i counting the qualifying rows.
func BuildDocuments(university string, records []recordModel.Record) []recordModel.IndexedDocument {
	var docs []recordModel.IndexedDocument
	for _, record := range records {
		if record.DeptID != recordModel.DefaultDepartmentID {
			continue
		}
		docs = append(docs, recordModel.IndexedDocument{
			DocKey:      fmt.Sprintf("%s_%d", university, len(docs)),
			Content:     record.RecContent,
			RecURL:      record.RecURL,
			RecID:       record.RecID,
			Description: record.Description,
		})
	}
	return docs
}

// Query embeds the question in query mode and returns the nearest passages
// in retrieval-rank order.
func (h *Handle) Query(ctx context.Context, question string, limit uint64) ([]recordModel.Passage, []float32, error) {
	vectors, err := h.embedder.Embed(ctx, []string{question}, embedding.ModeQuery)
	if err != nil {
		return nil, nil, err
	}
	passages, err := h.db.Search(ctx, h.Name, vectors[0], limit)
	if err != nil {
		return nil, vectors[0], err
	}
	return passages, vectors[0], nil
}

func (h *Handle) Count(ctx context.Context) (uint64, error) {
	return h.db.Count(ctx, h.Name)
}

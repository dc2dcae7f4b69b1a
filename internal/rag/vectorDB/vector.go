package vectorDB

import (
	"context"

	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
)

type DataProcessor interface {
	EnsureCollection(ctx context.Context, collectionName string) error
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	DeleteCollection(ctx context.Context, collectionName string) error
	Count(ctx context.Context, collectionName string) (uint64, error)
	UpsertBatch(ctx context.Context, collectionName string, docs []recordModel.IndexedDocument, vectors [][]float32) error
	Search(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]recordModel.Passage, error)

	// semantic answer cache
	GetCachedAnswer(ctx context.Context, university string, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, university string, id string, vector []float32, answer string) error
	PurgeCache(ctx context.Context, university string) error
}

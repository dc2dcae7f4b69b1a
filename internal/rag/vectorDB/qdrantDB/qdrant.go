package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			initCacheCollection(ctx, quadrantInstance)
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return false, fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}
	return exists, nil
}

func (db *ClientHolder) DeleteCollection(ctx context.Context, collectionName string) error {
	if err := db.QObj.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}
	return nil
}

func (db *ClientHolder) Count(ctx context.Context, collectionName string) (uint64, error) {
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}
	return count, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, docs []recordModel.IndexedDocument, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("mismatch: got %d documents but %d vectors", len(docs), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(docs))

	for i, doc := range docs {
		qdrantPoints[i] = &qdrant.PointStruct{
			// Point IDs must be UUIDs - derive one deterministically from the
			// doc key so re-population overwrites instead of duplicating
			Id:      qdrant.NewID(pointID(doc.DocKey)),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":     doc.Content,
				"rec_url":     doc.RecURL,
				"rec_id":      doc.RecID,
				"description": doc.Description,
				"doc_key":     doc.DocKey,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("%w: qdrant upsert failed: %s", apperrors.ErrStorage, err.Error())
	}

	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]recordModel.Passage, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}

	passages := make([]recordModel.Passage, 0, len(result))
	for _, hit := range result {
		passages = append(passages, recordModel.Passage{
			Content:     hit.Payload["content"].GetStringValue(),
			RecURL:      hit.Payload["rec_url"].GetStringValue(),
			RecID:       hit.Payload["rec_id"].GetStringValue(),
			Description: hit.Payload["description"].GetStringValue(),
		})
	}

	loggr.Debug("Found passages", "count", len(passages))
	return passages, nil
}

func pointID(docKey string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docKey)).String()
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStorage, err.Error())
	}
	return nil
}

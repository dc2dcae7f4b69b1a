package qdrantDB

import (
	"context"
	"time"

	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

var answerCacheDBName string = "answer-cache"

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	err := createCollection(ctx, client, answerCacheDBName)
	if err != nil {
		loggr.Error("Answer cache collection creation failed", "error", err)
	}
}

func universityFilter(university string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("university", university),
		},
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, university string, queryVector []float32) (string, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	loggr.Debug("Searching for cached answer", "university", university)
	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: answerCacheDBName,
		Query:          qdrant.NewQuery(queryVector...),
		Filter:         universityFilter(university),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false, err
	}

	loggr.Debug("Found cached answer", "semantic similarity score", searchResult[0].Score)
	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false, nil
	}

	loggr.Info("Answer cache hit", "university", university)
	answer := searchResult[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, university string, id string, vector []float32, answer string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	loggr.Debug("Saving answer to cache", "university", university)
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: answerCacheDBName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"university": university,
					"answer":     answer,
					"timestamp":  time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}

// PurgeCache drops every cached answer for a university. Called on delete so
// a re-uploaded dataset cannot serve stale answers.
func (db *ClientHolder) PurgeCache(ctx context.Context, university string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: answerCacheDBName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: universityFilter(university),
			},
		},
	})
	if err != nil {
		loggr.Error("Purging answer cache failed", "university", university, "error", err)
	}
	return err
}

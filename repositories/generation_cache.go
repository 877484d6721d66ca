package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"experience-nv/models"
)

// GenerationCacheRepository backs the generation response cache.
// Expiry is enforced twice: the TTL index reaps entries in the
// background, and Get filters on expires_at because the TTL monitor
// only runs about once a minute.
type GenerationCacheRepository struct {
	col *mongo.Collection
}

func NewGenerationCacheRepository(db *mongo.Database) *GenerationCacheRepository {
	return &GenerationCacheRepository{col: db.Collection("generation_cache")}
}

// Get returns the unexpired entry for key, or (nil, nil) on a miss.
func (r *GenerationCacheRepository) Get(ctx context.Context, key string) (*models.CachedGeneration, error) {
	var e models.CachedGeneration
	err := r.col.FindOne(ctx, bson.M{
		"key":        key,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Put upserts by key so a refreshed generation replaces the old entry.
func (r *GenerationCacheRepository) Put(ctx context.Context, entry models.CachedGeneration) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"key": entry.Key},
		bson.M{"$set": bson.M{
			"response":      entry.Response,
			"model_name":    entry.ModelName,
			"input_tokens":  entry.InputTokens,
			"output_tokens": entry.OutputTokens,
			"total_tokens":  entry.TotalTokens,
			"tags":          entry.Tags,
			"expires_at":    entry.ExpiresAt,
		}, "$setOnInsert": bson.M{
			"key":        entry.Key,
			"created_at": entry.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteByTags drops every entry carrying any of the given tags.
// Used by the invalidation worker.
func (r *GenerationCacheRepository) DeleteByTags(ctx context.Context, tags []string) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"tags": bson.M{"$in": tags}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

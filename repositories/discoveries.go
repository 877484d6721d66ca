package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"experience-nv/models"
)

type DiscoveryRepository struct {
	col *mongo.Collection
}

func NewDiscoveryRepository(db *mongo.Database) *DiscoveryRepository {
	return &DiscoveryRepository{col: db.Collection("discovery_suggestions")}
}

// InsertMany mirrors PromptRepository.InsertMany for suggestions:
// unordered bulk insert, (text, author_id) duplicates absorbed.
func (r *DiscoveryRepository) InsertMany(ctx context.Context, docs []models.DiscoverySuggestion) ([]models.DiscoverySuggestion, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	now := time.Now()
	payload := make([]interface{}, len(docs))
	for i := range docs {
		if docs[i].ID.IsZero() {
			docs[i].ID = primitive.NewObjectID()
		}
		if docs[i].CreatedAt.IsZero() {
			docs[i].CreatedAt = now
		}
		docs[i].UpdatedAt = now
		payload[i] = docs[i]
	}

	_, err := r.col.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	if err == nil {
		return docs, nil
	}

	failed, onlyDuplicates := duplicateFailures(err)
	if !onlyDuplicates {
		return nil, err
	}

	inserted := make([]models.DiscoverySuggestion, 0, len(docs)-len(failed))
	for i, d := range docs {
		if !failed[i] {
			inserted = append(inserted, d)
		}
	}
	return inserted, nil
}

func (r *DiscoveryRepository) FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.DiscoverySuggestion, error) {
	if limit <= 0 {
		return nil, nil
	}

	filter := bson.M{"author_id": authorID}
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DiscoverySuggestion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DiscoveryRepository) FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.DiscoverySuggestion, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{
		"author_id": authorID,
		"text":      bson.M{"$in": texts},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DiscoverySuggestion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ListDiscoveriesOptions struct {
	AuthorID string
	City     string
	Page     int
	PageSize int
}

func (r *DiscoveryRepository) List(ctx context.Context, in ListDiscoveriesOptions) ([]models.DiscoverySuggestion, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 || in.PageSize > 100 {
		in.PageSize = 20
	}

	filter := bson.M{"author_id": in.AuthorID}
	if in.City != "" {
		filter["city"] = in.City
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((in.Page - 1) * in.PageSize)).
		SetLimit(int64(in.PageSize))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DiscoverySuggestion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

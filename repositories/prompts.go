package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"experience-nv/models"
)

type PromptRepository struct {
	col *mongo.Collection
}

func NewPromptRepository(db *mongo.Database) *PromptRepository {
	return &PromptRepository{col: db.Collection("experience_prompts")}
}

// InsertMany bulk-inserts prompts with insert-or-ignore semantics:
// documents that collide with the (prompt_text, author_id) unique
// index are silently dropped and only the newly created subset is
// returned. Any non-duplicate failure fails the whole call.
func (r *PromptRepository) InsertMany(ctx context.Context, docs []models.ExperiencePrompt) ([]models.ExperiencePrompt, error) {
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

	inserted := make([]models.ExperiencePrompt, 0, len(docs)-len(failed))
	for i, d := range docs {
		if !failed[i] {
			inserted = append(inserted, d)
		}
	}
	return inserted, nil
}

// FindAdditionalEligible returns up to limit prompts visible to the
// given owner scope, excluding the given IDs, most recent first.
// An empty authorID addresses the anonymous/public pool.
func (r *PromptRepository) FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.ExperiencePrompt, error) {
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

	var out []models.ExperiencePrompt
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByTexts looks prompts up by exact generated text, scoped to the
// owner. Used only on total collision, where every generated string
// already exists verbatim.
func (r *PromptRepository) FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.ExperiencePrompt, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{
		"author_id":   authorID,
		"prompt_text": bson.M{"$in": texts},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ExperiencePrompt
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ListPromptsOptions struct {
	AuthorID string
	City     string
	Page     int
	PageSize int
}

// List returns prompts for browsing, most recent first.
func (r *PromptRepository) List(ctx context.Context, in ListPromptsOptions) ([]models.ExperiencePrompt, error) {
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

	var out []models.ExperiencePrompt
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByAuthor returns how many prompts the owner scope already has.
func (r *PromptRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"author_id": authorID})
}

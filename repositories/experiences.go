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

type ExperienceRepository struct {
	col *mongo.Collection
}

func NewExperienceRepository(db *mongo.Database) *ExperienceRepository {
	return &ExperienceRepository{col: db.Collection("experiences")}
}

func (r *ExperienceRepository) Insert(ctx context.Context, e *models.Experience) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return r.col.InsertOne(ctx, e)
}

func (r *ExperienceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Experience, error) {
	var e models.Experience
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

type ListExperiencesOptions struct {
	City     string
	AuthorID string
	Page     int
	PageSize int
}

// List returns experiences most recent first, optionally filtered by
// city and/or author.
func (r *ExperienceRepository) List(ctx context.Context, in ListExperiencesOptions) ([]models.Experience, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 || in.PageSize > 100 {
		in.PageSize = 20
	}

	filter := bson.M{}
	if in.City != "" {
		filter["city"] = in.City
	}
	if in.AuthorID != "" {
		filter["author_id"] = in.AuthorID
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

	var out []models.Experience
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

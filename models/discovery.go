package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscoverySuggestion is a persisted AI-generated discovery idea
// (a place or activity to try, as opposed to a writing prompt).
// Collection: discovery_suggestions
// Uniqueness: (text, author_id)
type DiscoverySuggestion struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	Text       string             `bson:"text" json:"text"`
	Title      string             `bson:"title" json:"title"`
	ModelName  string             `bson:"model_name" json:"model_name"`
	City       string             `bson:"city" json:"city"`
	Activities []string           `bson:"activities" json:"activities"`
	Interests  []string           `bson:"interests" json:"interests"`
	Meta       GenerationMeta     `bson:"meta" json:"meta"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CachedGeneration memoizes a finished structured-generation response.
// Collection: generation_cache
// Expiry: TTL index on expires_at, owned by Mongo.
type CachedGeneration struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// Key is a hash of (system prompt, user prompt, schema name).
	Key          string    `bson:"key" json:"key"`
	Response     string    `bson:"response" json:"response"` // raw JSON of the final object
	ModelName    string    `bson:"model_name" json:"model_name"`
	InputTokens  int64     `bson:"input_tokens" json:"input_tokens"`
	OutputTokens int64     `bson:"output_tokens" json:"output_tokens"`
	TotalTokens  int64     `bson:"total_tokens" json:"total_tokens"`
	Tags         []string  `bson:"tags" json:"tags"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
}

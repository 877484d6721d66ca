package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExperiencePrompt is a persisted AI-generated experience prompt.
// Collection: experience_prompts
// Uniqueness: (prompt_text, author_id) — duplicate generations are
// absorbed by the index, not treated as errors.
type ExperiencePrompt struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	PromptText string             `bson:"prompt_text" json:"prompt_text"`
	Title      string             `bson:"title" json:"title"`
	ModelName  string             `bson:"model_name" json:"model_name"`
	City       string             `bson:"city" json:"city"`
	Latitude   string             `bson:"latitude" json:"latitude"`
	Longitude  string             `bson:"longitude" json:"longitude"`
	Activities []string           `bson:"activities" json:"activities"`
	Interests  []string           `bson:"interests" json:"interests"`
	Meta       GenerationMeta     `bson:"meta" json:"meta"`
	// AuthorID is empty for the anonymous/public pool.
	AuthorID string `bson:"author_id" json:"author_id"`
}

// GenerationMeta is the provenance blob stored with every generated
// record for auditability. Never exposed to API clients.
type GenerationMeta struct {
	InputText          string    `bson:"input_text" json:"input_text"`
	SystemInstructions string    `bson:"system_instructions" json:"system_instructions"`
	Geo                GeoInfo   `bson:"geo" json:"geo"`
	GeneratedAt        time.Time `bson:"generated_at" json:"generated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Experience is a user-authored, location-tagged experience.
// Collection: experiences
type Experience struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	AuthorID    string             `bson:"author_id" json:"author_id"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	City        string             `bson:"city" json:"city"`
	Latitude    string             `bson:"latitude" json:"latitude"`
	Longitude   string             `bson:"longitude" json:"longitude"`
	Interests   []string           `bson:"interests" json:"interests"`
	// MediaURLs are opaque references to uploaded photos/audio; file
	// storage itself lives outside this service.
	MediaURLs []string `bson:"media_urls" json:"media_urls"`
	// PromptID links back to the generated prompt that seeded this
	// experience, when there was one.
	PromptID *primitive.ObjectID `bson:"prompt_id,omitempty" json:"prompt_id,omitempty"`
}

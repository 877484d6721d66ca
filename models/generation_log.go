package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationLog stores LLM usage logs (system monitoring purpose)
// Collection: generation_logs
type GenerationLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind           string             `bson:"kind" json:"kind"` // "prompts" | "discoveries"
	ModelName      string             `bson:"model_name" json:"model_name"`
	InputTokens    int64              `bson:"input_tokens" json:"input_tokens"`
	OutputTokens   int64              `bson:"output_tokens" json:"output_tokens"`
	TotalTokens    int64              `bson:"total_tokens" json:"total_tokens"`
	DurationMs     int64              `bson:"duration_ms" json:"duration_ms"`
	ErrorMessage   *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	InputPrompt    string             `bson:"input_prompt" json:"input_prompt"`
	OutputExcerpt  string             `bson:"output_excerpt" json:"output_excerpt"`
	RequestedAt    time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt    time.Time          `bson:"completed_at" json:"completed_at"`
}

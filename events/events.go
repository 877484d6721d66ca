package events

import "time"

// Event type discriminators carried in eventbus.Event.Type.
const (
	TypeCacheInvalidation   = "cache.invalidation"
	TypeGenerationCompleted = "generation.completed"
)

// CacheInvalidation asks downstream consumers to drop cached data for
// the given tags (e.g. "las vegas-prompts", "public-prompts").
type CacheInvalidation struct {
	Tags   []string  `json:"tags"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// GenerationCompleted announces that a generation run persisted new
// records, for analytics and feed refresh consumers.
type GenerationCompleted struct {
	Kind      string    `json:"kind"` // "prompts" | "discoveries"
	AuthorID  string    `json:"author_id,omitempty"`
	City      string    `json:"city,omitempty"`
	ModelName string    `json:"model_name"`
	Inserted  int       `json:"inserted"`
	At        time.Time `json:"at"`
}

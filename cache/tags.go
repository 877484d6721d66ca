package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"experience-nv/eventbus"
	"experience-nv/events"
)

// Tag suffixes for the derived invalidation keys.
const (
	PromptsTag     = "prompts"
	DiscoveriesTag = "discoveries"
)

// CityTag derives the per-geo key, e.g. "las vegas-prompts".
// Empty city means no city-scoped tag.
func CityTag(city, suffix string) string {
	if city == "" {
		return ""
	}
	return strings.ToLower(city) + "-" + suffix
}

// OwnerTag derives the per-user key, or the shared anonymous pool key
// when no user is known ("public-prompts").
func OwnerTag(userID, suffix string) string {
	if userID == "" {
		return "public-" + suffix
	}
	return userID + "-" + suffix
}

// Invalidator fires tag-based cache invalidation after a successful
// save so downstream list views refresh. Implementations must be safe
// to call fire-and-forget: a failure is the caller's to log, never to
// propagate.
type Invalidator interface {
	Invalidate(ctx context.Context, reason string, tags []string) error
}

// BusInvalidator publishes invalidation events on the event bus.
type BusInvalidator struct {
	Bus eventbus.EventBus
}

func (b BusInvalidator) Invalidate(ctx context.Context, reason string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	payload, err := json.Marshal(events.CacheInvalidation{
		Tags:   tags,
		Reason: reason,
		At:     time.Now(),
	})
	if err != nil {
		return err
	}
	return b.Bus.Publish(ctx, eventbus.TopicCacheInvalidation.Base(), eventbus.Event{
		ID:      uuid.NewString(),
		Type:    events.TypeCacheInvalidation,
		Payload: payload,
	})
}

// NopInvalidator is used when no event bus is configured (local dev,
// tests).
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, string, []string) error { return nil }

package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"experience-nv/logger"
	"experience-nv/models"
)

// CacheStore is the persistence behind the response cache. Get returns
// (nil, nil) on a miss; expiry is owned by the store (Mongo TTL index).
type CacheStore interface {
	Get(ctx context.Context, key string) (*models.CachedGeneration, error)
	Put(ctx context.Context, entry models.CachedGeneration) error
}

// cachedGenerator memoizes identical generation requests. It is a
// transparent decorator: the orchestrator cannot tell whether caching
// is active. Streaming hits replay the cached final object as a single
// partial snapshot.
type cachedGenerator struct {
	inner StructuredGenerator
	store CacheStore
	ttl   time.Duration
	model string
	tags  []string
}

// WithCache wraps gen with response memoization. A non-positive ttl
// disables caching and returns gen unchanged. tags are stored with new
// entries so invalidation can target them later.
func WithCache(gen StructuredGenerator, store CacheStore, ttl time.Duration, model string, tags []string) StructuredGenerator {
	if store == nil || ttl <= 0 {
		return gen
	}
	return &cachedGenerator{inner: gen, store: store, ttl: ttl, model: model, tags: tags}
}

// CacheKey hashes the full request tuple. Identical prompts against
// the same schema share an entry.
func CacheKey(systemPrompt, userPrompt, schemaName string) string {
	h := sha256.New()
	h.Write([]byte(systemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	h.Write([]byte{0})
	h.Write([]byte(schemaName))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *cachedGenerator) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema) (*GeneratedSet, Usage, error) {
	if set, usage, ok := c.lookup(ctx, systemPrompt, userPrompt, schema); ok {
		return set, usage, nil
	}

	set, usage, err := c.inner.GenerateStructured(ctx, systemPrompt, userPrompt, schema)
	if err != nil {
		return nil, Usage{}, err
	}
	c.save(ctx, systemPrompt, userPrompt, schema, set, usage)
	return set, usage, nil
}

func (c *cachedGenerator) StreamStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, onPartial func(GeneratedSet)) (*GeneratedSet, Usage, error) {
	if set, usage, ok := c.lookup(ctx, systemPrompt, userPrompt, schema); ok {
		if onPartial != nil {
			onPartial(*set)
		}
		return set, usage, nil
	}

	set, usage, err := c.inner.StreamStructured(ctx, systemPrompt, userPrompt, schema, onPartial)
	if err != nil {
		return nil, Usage{}, err
	}
	c.save(ctx, systemPrompt, userPrompt, schema, set, usage)
	return set, usage, nil
}

func (c *cachedGenerator) lookup(ctx context.Context, systemPrompt, userPrompt string, schema Schema) (*GeneratedSet, Usage, bool) {
	key := CacheKey(systemPrompt, userPrompt, schema.Name)
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Log.Warnf("generation cache lookup failed: %v", err)
		return nil, Usage{}, false
	}
	if entry == nil {
		return nil, Usage{}, false
	}

	var set GeneratedSet
	if err := json.Unmarshal([]byte(entry.Response), &set); err != nil {
		logger.Log.Warnf("generation cache entry %s undecodable, ignoring: %v", key, err)
		return nil, Usage{}, false
	}
	return &set, Usage{
		InputTokens:  entry.InputTokens,
		OutputTokens: entry.OutputTokens,
		TotalTokens:  entry.TotalTokens,
	}, true
}

// save is best-effort: a cache write failure never fails the call.
func (c *cachedGenerator) save(ctx context.Context, systemPrompt, userPrompt string, schema Schema, set *GeneratedSet, usage Usage) {
	raw, err := json.Marshal(set)
	if err != nil {
		logger.Log.Warnf("generation cache marshal failed: %v", err)
		return
	}
	now := time.Now()
	err = c.store.Put(ctx, models.CachedGeneration{
		Key:          CacheKey(systemPrompt, userPrompt, schema.Name),
		Response:     string(raw),
		ModelName:    c.model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TotalTokens:  usage.TotalTokens,
		Tags:         c.tags,
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
	})
	if err != nil {
		logger.Log.Warnf("generation cache write failed: %v", err)
	}
}

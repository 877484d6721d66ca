package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"experience-nv/generator"
	"experience-nv/geo"
	"experience-nv/models"
)

type fakeDiscoveryStore struct {
	colliding map[string]bool
	existing  []models.DiscoverySuggestion
	backfill  []models.DiscoverySuggestion

	insertCalls   int
	insertedDocs  []models.DiscoverySuggestion
	backfillCalls int
	byTextsCalls  int
}

func (f *fakeDiscoveryStore) InsertMany(ctx context.Context, docs []models.DiscoverySuggestion) ([]models.DiscoverySuggestion, error) {
	f.insertCalls++
	out := make([]models.DiscoverySuggestion, 0, len(docs))
	for _, d := range docs {
		if f.colliding[d.Text] {
			continue
		}
		d.ID = primitive.NewObjectID()
		out = append(out, d)
	}
	f.insertedDocs = append(f.insertedDocs, out...)
	return out, nil
}

func (f *fakeDiscoveryStore) FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.DiscoverySuggestion, error) {
	f.backfillCalls++
	if limit < len(f.backfill) {
		return f.backfill[:limit], nil
	}
	return f.backfill, nil
}

func (f *fakeDiscoveryStore) FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.DiscoverySuggestion, error) {
	f.byTextsCalls++
	return f.existing, nil
}

type memCacheStore struct {
	entries map[string]models.CachedGeneration
}

func newMemCacheStore() *memCacheStore {
	return &memCacheStore{entries: map[string]models.CachedGeneration{}}
}

func (m *memCacheStore) Get(ctx context.Context, key string) (*models.CachedGeneration, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memCacheStore) Put(ctx context.Context, entry models.CachedGeneration) error {
	m.entries[entry.Key] = entry
	return nil
}

type recordingInvalidator struct {
	reasons []string
	tags    [][]string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, reason string, tags []string) error {
	r.reasons = append(r.reasons, reason)
	r.tags = append(r.tags, tags)
	return nil
}

func collectDiscoveries(t *testing.T, gen *DiscoveryGeneration) ([]generator.GeneratedSet, DiscoveryRecords) {
	t.Helper()
	var partials []generator.GeneratedSet
	for p := range gen.Generated {
		partials = append(partials, p)
	}
	var rec DiscoveryRecords
	select {
	case rec = <-gen.Records:
	case <-time.After(5 * time.Second):
		t.Fatal("records never resolved")
	}
	return partials, rec
}

func TestDiscoveryGeneratePersistsAndInvalidates(t *testing.T) {
	final := itemsNamed("hike Red Rock", "soak at a hot spring")
	g := &fakeGenerator{
		partials: []generator.GeneratedSet{itemsNamed("hike Red Rock"), final},
		final:    &final,
	}
	store := &fakeDiscoveryStore{}
	inv := &recordingInvalidator{}
	svc := NewDiscoveryService(DiscoveryServiceDeps{Generator: g, Store: store, Invalidator: inv, ModelName: "m"})

	headers := geo.MapHeaderSource{"X-Vercel-IP-City": "Reno"}
	gen, err := svc.Generate(context.Background(), headers, GenerateInput{DesiredCount: 2, AuthorID: "u1"})
	require.NoError(t, err)

	partials, rec := collectDiscoveries(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, partials, 2)
	require.Len(t, rec.Records, 2)
	assert.Equal(t, "hike Red Rock", rec.Records[0].Text)
	assert.Equal(t, "Reno", store.insertedDocs[0].City)

	require.Len(t, inv.tags, 1)
	assert.Contains(t, inv.tags[0], "u1-discoveries")
	assert.Contains(t, inv.tags[0], "reno-discoveries")
}

func TestDiscoveryGenerateSecondIdenticalCallServedFromCache(t *testing.T) {
	final := itemsNamed("a", "b")
	g := &fakeGenerator{final: &final}
	cacheStore := newMemCacheStore()
	deps := DiscoveryServiceDeps{
		Generator: g,
		Store:     &fakeDiscoveryStore{},
		Cache:     cacheStore,
		CacheTTL:  time.Hour,
		ModelName: "m",
	}
	svc := NewDiscoveryService(deps)

	in := GenerateInput{DesiredCount: 2}
	gen1, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, in)
	require.NoError(t, err)
	_, rec1 := collectDiscoveries(t, gen1)
	require.NoError(t, rec1.Err)
	require.Equal(t, 1, g.calls)

	gen2, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, in)
	require.NoError(t, err)
	partials2, rec2 := collectDiscoveries(t, gen2)
	require.NoError(t, rec2.Err)

	assert.Equal(t, 1, g.calls, "second identical request should not reach the model")
	// a hit replays the cached final object as one partial snapshot
	require.Len(t, partials2, 1)
	assert.Len(t, partials2[0].Items, 2)
	require.Len(t, rec2.Records, 2)
}

func TestDiscoveryGenerateDistinctRequestsMissCache(t *testing.T) {
	final := itemsNamed("a")
	g := &fakeGenerator{final: &final}
	svc := NewDiscoveryService(DiscoveryServiceDeps{
		Generator: g,
		Store:     &fakeDiscoveryStore{},
		Cache:     newMemCacheStore(),
		CacheTTL:  time.Hour,
		ModelName: "m",
	})

	gen1, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{SubjectContext: "weekend"})
	require.NoError(t, err)
	collectDiscoveries(t, gen1)

	gen2, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{SubjectContext: "after dark"})
	require.NoError(t, err)
	collectDiscoveries(t, gen2)

	assert.Equal(t, 2, g.calls)
}

func TestDiscoveryGenerateTotalCollisionFallsBackToLookup(t *testing.T) {
	final := itemsNamed("a", "b")
	g := &fakeGenerator{final: &final}
	store := &fakeDiscoveryStore{
		colliding: map[string]bool{"a": true, "b": true},
		existing: []models.DiscoverySuggestion{
			{ID: primitive.NewObjectID(), Text: "a"},
			{ID: primitive.NewObjectID(), Text: "b"},
		},
	}
	svc := NewDiscoveryService(DiscoveryServiceDeps{Generator: g, Store: store, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{DesiredCount: 2})
	require.NoError(t, err)
	_, rec := collectDiscoveries(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, rec.Records, 2)
	assert.Equal(t, 1, store.byTextsCalls)
	assert.Equal(t, 0, store.backfillCalls)
}

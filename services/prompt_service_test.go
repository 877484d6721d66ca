package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"experience-nv/generator"
	"experience-nv/geo"
	"experience-nv/models"
)

type fakeGenerator struct {
	partials []generator.GeneratedSet
	final    *generator.GeneratedSet
	usage    generator.Usage
	err      error

	calls int
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, system, user string, schema generator.Schema) (*generator.GeneratedSet, generator.Usage, error) {
	f.calls++
	return f.final, f.usage, f.err
}

func (f *fakeGenerator) StreamStructured(ctx context.Context, system, user string, schema generator.Schema, onPartial func(generator.GeneratedSet)) (*generator.GeneratedSet, generator.Usage, error) {
	f.calls++
	if f.err != nil {
		return nil, generator.Usage{}, f.err
	}
	for _, p := range f.partials {
		onPartial(p)
	}
	return f.final, f.usage, nil
}

// fakePromptStore simulates the unique-index dedup: any doc whose text
// is in colliding is silently skipped by InsertMany.
type fakePromptStore struct {
	colliding map[string]bool
	existing  []models.ExperiencePrompt
	backfill  []models.ExperiencePrompt

	insertCalls   int
	insertedDocs  []models.ExperiencePrompt
	backfillCalls int
	byTextsCalls  int
	lastAuthorID  string
	lastExclude   []primitive.ObjectID
	lastLimit     int
}

func (f *fakePromptStore) InsertMany(ctx context.Context, docs []models.ExperiencePrompt) ([]models.ExperiencePrompt, error) {
	f.insertCalls++
	out := make([]models.ExperiencePrompt, 0, len(docs))
	for _, d := range docs {
		if f.colliding[d.PromptText] {
			continue
		}
		d.ID = primitive.NewObjectID()
		out = append(out, d)
	}
	f.insertedDocs = append(f.insertedDocs, out...)
	return out, nil
}

func (f *fakePromptStore) FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.ExperiencePrompt, error) {
	f.backfillCalls++
	f.lastAuthorID = authorID
	f.lastExclude = excludeIDs
	f.lastLimit = limit
	if limit < len(f.backfill) {
		return f.backfill[:limit], nil
	}
	return f.backfill, nil
}

func (f *fakePromptStore) FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.ExperiencePrompt, error) {
	f.byTextsCalls++
	f.lastAuthorID = authorID
	return f.existing, nil
}

type fakeLogStore struct {
	entries []models.GenerationLog
}

func (f *fakeLogStore) Insert(ctx context.Context, log models.GenerationLog) (*mongo.InsertOneResult, error) {
	f.entries = append(f.entries, log)
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func itemsNamed(texts ...string) generator.GeneratedSet {
	set := generator.GeneratedSet{}
	for _, t := range texts {
		set.Items = append(set.Items, generator.GeneratedItem{Title: "t: " + t, Prompt: t})
	}
	return set
}

func promptDocs(texts ...string) []models.ExperiencePrompt {
	out := make([]models.ExperiencePrompt, 0, len(texts))
	for _, t := range texts {
		out = append(out, models.ExperiencePrompt{ID: primitive.NewObjectID(), PromptText: t})
	}
	return out
}

func collectPrompts(t *testing.T, gen *PromptGeneration) ([]generator.GeneratedSet, PromptRecords) {
	t.Helper()
	var partials []generator.GeneratedSet
	for p := range gen.Generated {
		partials = append(partials, p)
	}
	var rec PromptRecords
	select {
	case rec = <-gen.Records:
	case <-time.After(5 * time.Second):
		t.Fatal("records never resolved")
	}
	_, open := <-gen.Records
	assert.False(t, open, "records channel should close after the single value")
	return partials, rec
}

func TestPromptGeneratePartialsThenRecords(t *testing.T) {
	final := itemsNamed("a", "b", "c")
	g := &fakeGenerator{
		partials: []generator.GeneratedSet{itemsNamed("a"), itemsNamed("a", "b"), final},
		final:    &final,
		usage:    generator.Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
	}
	store := &fakePromptStore{}
	logs := &fakeLogStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, Logs: logs, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{DesiredCount: 3})
	require.NoError(t, err)

	partials, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, partials, 3)
	assert.Len(t, partials[0].Items, 1)
	assert.Len(t, partials[2].Items, 3)
	require.Len(t, rec.Records, 3)
	assert.Equal(t, "a", rec.Records[0].Prompt)
	assert.Equal(t, 1, store.insertCalls)
	assert.Equal(t, 0, store.backfillCalls)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, "prompts", logs.entries[0].Kind)
	assert.EqualValues(t, 30, logs.entries[0].TotalTokens)
	assert.Nil(t, logs.entries[0].ErrorMessage)
}

func TestPromptGeneratePartialCollisionBackfills(t *testing.T) {
	final := itemsNamed("a", "b", "c", "d", "e")
	g := &fakeGenerator{final: &final}
	store := &fakePromptStore{
		colliding: map[string]bool{"b": true, "d": true, "e": true},
		backfill:  promptDocs("old1", "old2", "old3"),
	}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{DesiredCount: 5, AuthorID: "u1"})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, rec.Records, 5)
	assert.Equal(t, "a", rec.Records[0].Prompt)
	assert.Equal(t, "c", rec.Records[1].Prompt)
	assert.Equal(t, "old1", rec.Records[2].Prompt)

	assert.Equal(t, 1, store.backfillCalls)
	assert.Equal(t, "u1", store.lastAuthorID)
	assert.Equal(t, 3, store.lastLimit)
	assert.Len(t, store.lastExclude, 2)
	assert.Equal(t, 0, store.byTextsCalls)
}

func TestPromptGenerateTotalCollisionFallsBackToLookup(t *testing.T) {
	final := itemsNamed("a", "b", "c")
	g := &fakeGenerator{final: &final}
	store := &fakePromptStore{
		colliding: map[string]bool{"a": true, "b": true, "c": true},
		existing:  promptDocs("a", "b", "c"),
	}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{DesiredCount: 3, AuthorID: "u1"})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, rec.Records, 3)
	assert.Equal(t, 1, store.byTextsCalls)
	assert.Equal(t, "u1", store.lastAuthorID)
	assert.Equal(t, 0, store.backfillCalls)
}

func TestPromptGenerateEmptyFinalSkipsInsert(t *testing.T) {
	final := generator.GeneratedSet{}
	g := &fakeGenerator{final: &final}
	store := &fakePromptStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	assert.Empty(t, rec.Records)
	assert.Equal(t, 0, store.insertCalls)
}

func TestPromptGenerateErrorArrivesOnRecords(t *testing.T) {
	genErr := errors.New("model unavailable")
	g := &fakeGenerator{err: genErr}
	store := &fakePromptStore{}
	logs := &fakeLogStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, Logs: logs, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{})
	require.NoError(t, err, "generation failures are asynchronous")

	partials, rec := collectPrompts(t, gen)
	assert.Empty(t, partials)
	require.ErrorIs(t, rec.Err, genErr)
	assert.Equal(t, 0, store.insertCalls)

	require.Len(t, logs.entries, 1)
	require.NotNil(t, logs.entries[0].ErrorMessage)
	assert.Equal(t, "model unavailable", *logs.entries[0].ErrorMessage)
}

func TestPromptGenerateResolvesGeoFromHeaders(t *testing.T) {
	final := itemsNamed("a")
	g := &fakeGenerator{final: &final}
	store := &fakePromptStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	headers := geo.MapHeaderSource{
		"X-Vercel-IP-City":      "Las%20Vegas",
		"X-Vercel-IP-Latitude":  "36.17",
		"X-Vercel-IP-Longitude": "-115.14",
	}
	gen, err := svc.Generate(context.Background(), headers, GenerateInput{DesiredCount: 1})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, store.insertedDocs, 1)
	assert.Equal(t, "Las Vegas", store.insertedDocs[0].City)
	assert.Equal(t, "36.17", store.insertedDocs[0].Latitude)
	assert.Equal(t, "Las Vegas", store.insertedDocs[0].Meta.Geo.City)
}

func TestPromptGenerateSkipsBlankPromptText(t *testing.T) {
	final := generator.GeneratedSet{Items: []generator.GeneratedItem{
		{Title: "ok", Prompt: "a real prompt"},
		{Title: "blank", Prompt: "   "},
	}}
	g := &fakeGenerator{final: &final}
	store := &fakePromptStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{DesiredCount: 1})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.Len(t, store.insertedDocs, 1)
	assert.Equal(t, "a real prompt", store.insertedDocs[0].PromptText)
}

func TestPromptGenerateOnFinishSeesFinalBeforeRecords(t *testing.T) {
	final := itemsNamed("a", "b")
	g := &fakeGenerator{final: &final, usage: generator.Usage{TotalTokens: 7}}
	store := &fakePromptStore{}
	svc := NewPromptService(PromptServiceDeps{Generator: g, Store: store, ModelName: "m"})

	var seen *generator.GeneratedSet
	var seenUsage generator.Usage
	gen, err := svc.Generate(context.Background(), geo.MapHeaderSource{}, GenerateInput{
		DesiredCount: 2,
		OnFinish: func(set generator.GeneratedSet, u generator.Usage) {
			seen = &set
			seenUsage = u
		},
	})
	require.NoError(t, err)

	_, rec := collectPrompts(t, gen)
	require.NoError(t, rec.Err)
	require.NotNil(t, seen)
	assert.Len(t, seen.Items, 2)
	assert.EqualValues(t, 7, seenUsage.TotalTokens)
}

package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"experience-nv/cache"
	"experience-nv/dto"
	"experience-nv/eventbus"
	"experience-nv/events"
	"experience-nv/generator"
	"experience-nv/geo"
	"experience-nv/logger"
	"experience-nv/models"
	"experience-nv/quota"
)

// DiscoveryStore is the persistence surface the discovery pipeline needs.
type DiscoveryStore interface {
	InsertMany(ctx context.Context, docs []models.DiscoverySuggestion) ([]models.DiscoverySuggestion, error)
	FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.DiscoverySuggestion, error)
	FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.DiscoverySuggestion, error)
}

type DiscoveryServiceDeps struct {
	Generator   generator.StructuredGenerator
	Store       DiscoveryStore
	Logs        GenerationLogStore
	Invalidator cache.Invalidator
	Bus         eventbus.EventBus
	Limiter     *quota.GenerationQuotaLimiter
	// Cache, when set, short-circuits repeat discovery requests for the
	// same prompt tuple. Nil disables caching.
	Cache     generator.CacheStore
	CacheTTL  time.Duration
	ModelName string
}

// DiscoveryService drives discovery-suggestion generation. Same shape
// as PromptService, with a response cache in front of the model:
// discovery requests repeat far more often (same city, same interests)
// than authored prompt requests do.
type DiscoveryService struct {
	deps DiscoveryServiceDeps
}

func NewDiscoveryService(deps DiscoveryServiceDeps) *DiscoveryService {
	if deps.Invalidator == nil {
		deps.Invalidator = cache.NopInvalidator{}
	}
	return &DiscoveryService{deps: deps}
}

// DiscoveryRecords is the single value delivered on the records channel.
type DiscoveryRecords struct {
	Records []dto.DiscoveryDTO
	Err     error
}

// DiscoveryGeneration is the pair of output handles for one invocation.
type DiscoveryGeneration struct {
	Generated <-chan generator.GeneratedSet
	Records   <-chan DiscoveryRecords
}

// Generate starts the pipeline. Channel semantics match
// PromptService.Generate: the background task outlives the caller, and
// only quota refusal and context errors come back synchronously.
func (s *DiscoveryService) Generate(ctx context.Context, headers geo.HeaderSource, in GenerateInput) (*DiscoveryGeneration, error) {
	if s.deps.Limiter != nil {
		ok, err := s.deps.Limiter.WaitAndReserve(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrQuotaExhausted
		}
	}

	generated := make(chan generator.GeneratedSet, 128)
	records := make(chan DiscoveryRecords, 1)

	go s.run(context.WithoutCancel(ctx), headers, in, generated, records)

	return &DiscoveryGeneration{Generated: generated, Records: records}, nil
}

func (s *DiscoveryService) run(ctx context.Context, headers geo.HeaderSource, in GenerateInput, generated chan<- generator.GeneratedSet, records chan<- DiscoveryRecords) {
	defer close(generated)
	defer close(records)

	desired := in.DesiredCount
	if desired <= 0 {
		desired = generator.DefaultDesiredCount
	}

	g := geo.Resolve(headers, in.Geo)

	system := generator.BuildSystemInstructions(desired, g)
	user := generator.BuildUserPrompt(in.SubjectContext, desired, len(in.ExistingItems), in.Interests, in.ExistingItems, enrichContext(in))

	// The decorator is built per run so the entry carries the tags of
	// this request's geo and owner; invalidation for either then evicts
	// the matching cached responses.
	gen := generator.WithCache(s.deps.Generator, s.deps.Cache, s.deps.CacheTTL, s.deps.ModelName, s.tags(g, in.AuthorID))

	started := time.Now()
	final, usage, err := gen.StreamStructured(ctx, system, user, generator.DiscoverySchema(), func(set generator.GeneratedSet) {
		select {
		case generated <- set:
		default:
			logger.Log.Debug("discovery partial dropped: consumer not keeping up")
		}
	})
	if err != nil {
		logger.Log.Errorf("discovery generation failed: %v", err)
		s.logGeneration(ctx, system, user, started, generator.Usage{}, "", err)
		records <- DiscoveryRecords{Err: err}
		return
	}

	if in.OnFinish != nil {
		in.OnFinish(*final, usage)
	}
	s.logGeneration(ctx, system, user, started, usage, excerptOf(*final), nil)

	docs := s.toDocuments(*final, g, system, user, in.AuthorID)
	if len(docs) == 0 {
		records <- DiscoveryRecords{Records: []dto.DiscoveryDTO{}}
		return
	}

	inserted, err := s.deps.Store.InsertMany(ctx, docs)
	if err != nil {
		logger.Log.Errorf("discovery insert failed: %v", err)
		records <- DiscoveryRecords{Err: err}
		return
	}

	reconciled := s.reconcile(ctx, in.AuthorID, desired, docs, inserted)

	if len(inserted) > 0 {
		s.afterSave(ctx, g, in.AuthorID, len(inserted))
	}

	out := make([]dto.DiscoveryDTO, 0, len(reconciled))
	for _, d := range reconciled {
		out = append(out, dto.NewDiscoveryDTO(d))
	}
	records <- DiscoveryRecords{Records: out}
}

func (s *DiscoveryService) tags(g models.GeoInfo, authorID string) []string {
	tags := []string{cache.OwnerTag(authorID, cache.DiscoveriesTag)}
	if t := cache.CityTag(g.City, cache.DiscoveriesTag); t != "" {
		tags = append(tags, t)
	}
	return tags
}

func (s *DiscoveryService) toDocuments(final generator.GeneratedSet, g models.GeoInfo, system, user, authorID string) []models.DiscoverySuggestion {
	now := time.Now()
	docs := make([]models.DiscoverySuggestion, 0, len(final.Items))
	for _, item := range final.Items {
		text := strings.TrimSpace(item.Prompt)
		if text == "" {
			continue
		}
		docs = append(docs, models.DiscoverySuggestion{
			Text:       text,
			Title:      strings.TrimSpace(item.Title),
			ModelName:  s.deps.ModelName,
			City:       g.City,
			Activities: item.Activities,
			Interests:  item.Interests,
			AuthorID:   authorID,
			Meta: models.GenerationMeta{
				InputText:          user,
				SystemInstructions: system,
				Geo:                g,
				GeneratedAt:        now,
			},
		})
	}
	return docs
}

func (s *DiscoveryService) reconcile(ctx context.Context, authorID string, desired int, attempted, inserted []models.DiscoverySuggestion) []models.DiscoverySuggestion {
	if len(inserted) == 0 {
		texts := make([]string, len(attempted))
		for i, d := range attempted {
			texts[i] = d.Text
		}
		existing, err := s.deps.Store.FindByTexts(ctx, authorID, texts)
		if err != nil {
			logger.Log.Warnf("discovery fallback lookup failed: %v", err)
		}
		if len(existing) == 0 {
			logger.Log.Warn("discovery generation fully collided and fallback lookup found nothing")
		}
		if len(existing) > desired {
			existing = existing[:desired]
		}
		return existing
	}

	reconciled := inserted
	if len(reconciled) < desired {
		excludeIDs := make([]primitive.ObjectID, len(reconciled))
		for i, d := range reconciled {
			excludeIDs[i] = d.ID
		}
		backfill, err := s.deps.Store.FindAdditionalEligible(ctx, authorID, excludeIDs, desired-len(reconciled))
		if err != nil {
			logger.Log.Warnf("discovery backfill failed: %v", err)
		} else {
			reconciled = append(reconciled, backfill...)
		}
	}

	if len(reconciled) > desired {
		reconciled = reconciled[:desired]
	}
	return reconciled
}

func (s *DiscoveryService) afterSave(ctx context.Context, g models.GeoInfo, authorID string, insertedCount int) {
	if err := s.deps.Invalidator.Invalidate(ctx, "discoveries generated", s.tags(g, authorID)); err != nil {
		logger.Log.Warnf("discovery cache invalidation failed: %v", err)
	}

	if s.deps.Bus != nil {
		payload, err := json.Marshal(events.GenerationCompleted{
			Kind:      "discoveries",
			AuthorID:  authorID,
			City:      g.City,
			ModelName: s.deps.ModelName,
			Inserted:  insertedCount,
			At:        time.Now(),
		})
		if err == nil {
			err = s.deps.Bus.Publish(ctx, eventbus.TopicGenerationEvents.Base(), eventbus.Event{
				ID:      uuid.NewString(),
				Type:    events.TypeGenerationCompleted,
				Payload: payload,
			})
		}
		if err != nil {
			logger.Log.Warnf("generation event publish failed: %v", err)
		}
	}
}

func (s *DiscoveryService) logGeneration(ctx context.Context, system, user string, started time.Time, usage generator.Usage, excerpt string, genErr error) {
	if s.deps.Logs == nil {
		return
	}
	entry := models.GenerationLog{
		Kind:          "discoveries",
		ModelName:     s.deps.ModelName,
		InputTokens:   usage.InputTokens,
		OutputTokens:  usage.OutputTokens,
		TotalTokens:   usage.TotalTokens,
		DurationMs:    time.Since(started).Milliseconds(),
		InputPrompt:   system + "\n\n" + user,
		OutputExcerpt: excerpt,
		RequestedAt:   started,
		CompletedAt:   time.Now(),
	}
	if genErr != nil {
		msg := genErr.Error()
		entry.ErrorMessage = &msg
	}
	if _, err := s.deps.Logs.Insert(ctx, entry); err != nil {
		logger.Log.Warnf("generation log insert failed: %v", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"experience-nv/cache"
	"experience-nv/dto"
	"experience-nv/eventbus"
	"experience-nv/events"
	"experience-nv/feeder"
	"experience-nv/generator"
	"experience-nv/geo"
	"experience-nv/logger"
	"experience-nv/models"
	"experience-nv/parser"
	"experience-nv/quota"
)

// ErrQuotaExhausted means the daily generation budget is spent; the
// caller should surface a retry-later response, not an error page.
var ErrQuotaExhausted = errors.New("generation quota exhausted")

const contextURLMaxRunes = 4000

// PromptStore is the persistence surface the prompt pipeline needs.
type PromptStore interface {
	InsertMany(ctx context.Context, docs []models.ExperiencePrompt) ([]models.ExperiencePrompt, error)
	FindAdditionalEligible(ctx context.Context, authorID string, excludeIDs []primitive.ObjectID, limit int) ([]models.ExperiencePrompt, error)
	FindByTexts(ctx context.Context, authorID string, texts []string) ([]models.ExperiencePrompt, error)
}

// GenerationLogStore records model usage; best-effort everywhere.
type GenerationLogStore interface {
	Insert(ctx context.Context, log models.GenerationLog) (*mongo.InsertOneResult, error)
}

type PromptServiceDeps struct {
	Generator   generator.StructuredGenerator
	Store       PromptStore
	Logs        GenerationLogStore
	Invalidator cache.Invalidator
	Bus         eventbus.EventBus
	Limiter     *quota.GenerationQuotaLimiter
	ModelName   string
}

// PromptService drives one experience-prompt generation per call:
// resolve geo, build instructions, relay the model's partial stream to
// the caller, then persist, reconcile, and invalidate.
type PromptService struct {
	deps PromptServiceDeps
}

func NewPromptService(deps PromptServiceDeps) *PromptService {
	if deps.Invalidator == nil {
		deps.Invalidator = cache.NopInvalidator{}
	}
	return &PromptService{deps: deps}
}

// GenerateInput is one generation request. Geo may be partial or nil;
// the pipeline fills the gaps from headers before prompting.
type GenerateInput struct {
	SubjectContext    string
	DesiredCount      int
	Geo               *models.GeoInfo
	Interests         []string
	ExistingItems     []string
	AdditionalContext string
	ContextURL        string
	IncludeHappenings bool
	// AuthorID is empty for the anonymous/public pool.
	AuthorID string
	// OnFinish, when set, observes the raw finished object before any
	// persistence happens.
	OnFinish func(generator.GeneratedSet, generator.Usage)
}

// PromptRecords is the single value delivered on the records channel.
type PromptRecords struct {
	Records []dto.PromptDTO
	Err     error
}

// PromptGeneration is the pair of output handles for one invocation.
// Generated relays partial snapshots in receipt order; Records
// resolves exactly once after saving and reconciliation.
type PromptGeneration struct {
	Generated <-chan generator.GeneratedSet
	Records   <-chan PromptRecords
}

// Generate starts the pipeline. The returned channels are fed by a
// background task that outlives the caller: abandoning them stops
// consumption but never persistence. Only quota refusal and context
// errors are returned synchronously; generation failures arrive on the
// records channel.
func (s *PromptService) Generate(ctx context.Context, headers geo.HeaderSource, in GenerateInput) (*PromptGeneration, error) {
	if s.deps.Limiter != nil {
		ok, err := s.deps.Limiter.WaitAndReserve(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrQuotaExhausted
		}
	}

	// Buffered so a stalled or departed consumer cannot block the
	// pipeline; a full buffer drops the oldest-unread partials rather
	// than stall persistence.
	generated := make(chan generator.GeneratedSet, 128)
	records := make(chan PromptRecords, 1)

	go s.run(context.WithoutCancel(ctx), headers, in, generated, records)

	return &PromptGeneration{Generated: generated, Records: records}, nil
}

func (s *PromptService) run(ctx context.Context, headers geo.HeaderSource, in GenerateInput, generated chan<- generator.GeneratedSet, records chan<- PromptRecords) {
	defer close(generated)
	defer close(records)

	desired := in.DesiredCount
	if desired <= 0 {
		desired = generator.DefaultDesiredCount
	}

	g := geo.Resolve(headers, in.Geo)

	additional := enrichContext(in)

	system := generator.BuildSystemInstructions(desired, g)
	user := generator.BuildUserPrompt(in.SubjectContext, desired, len(in.ExistingItems), in.Interests, in.ExistingItems, additional)

	started := time.Now()
	final, usage, err := s.deps.Generator.StreamStructured(ctx, system, user, generator.PromptSchema(), func(set generator.GeneratedSet) {
		select {
		case generated <- set:
		default:
			logger.Log.Debug("prompt partial dropped: consumer not keeping up")
		}
	})
	if err != nil {
		logger.Log.Errorf("prompt generation failed: %v", err)
		s.logGeneration(ctx, system, user, started, generator.Usage{}, "", err)
		records <- PromptRecords{Err: err}
		return
	}

	if in.OnFinish != nil {
		in.OnFinish(*final, usage)
	}
	s.logGeneration(ctx, system, user, started, usage, excerptOf(*final), nil)

	docs := s.toDocuments(*final, g, system, user, in.AuthorID)
	if len(docs) == 0 {
		records <- PromptRecords{Records: []dto.PromptDTO{}}
		return
	}

	inserted, err := s.deps.Store.InsertMany(ctx, docs)
	if err != nil {
		logger.Log.Errorf("prompt insert failed: %v", err)
		records <- PromptRecords{Err: err}
		return
	}

	reconciled := s.reconcile(ctx, in.AuthorID, desired, docs, inserted)

	if len(inserted) > 0 {
		s.afterSave(ctx, g, in.AuthorID, usage, len(inserted))
	}

	out := make([]dto.PromptDTO, 0, len(reconciled))
	for _, p := range reconciled {
		out = append(out, dto.NewPromptDTO(p))
	}
	records <- PromptRecords{Records: out}
}

// enrichContext folds the optional context URL and happenings feed
// into the additional-context segment. Both are best-effort.
func enrichContext(in GenerateInput) string {
	parts := []string{}
	if strings.TrimSpace(in.AdditionalContext) != "" {
		parts = append(parts, strings.TrimSpace(in.AdditionalContext))
	}
	if in.ContextURL != "" {
		if text, err := parser.ContextFromURL(in.ContextURL, contextURLMaxRunes); err != nil {
			logger.Log.Warnf("context url %s unusable: %v", in.ContextURL, err)
		} else if text != "" {
			parts = append(parts, text)
		}
	}
	if in.IncludeHappenings {
		if h := feeder.HappeningsContext(); h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *PromptService) toDocuments(final generator.GeneratedSet, g models.GeoInfo, system, user, authorID string) []models.ExperiencePrompt {
	now := time.Now()
	docs := make([]models.ExperiencePrompt, 0, len(final.Items))
	for _, item := range final.Items {
		text := strings.TrimSpace(item.Prompt)
		if text == "" {
			continue
		}
		docs = append(docs, models.ExperiencePrompt{
			PromptText: text,
			Title:      strings.TrimSpace(item.Title),
			ModelName:  s.deps.ModelName,
			City:       g.City,
			Latitude:   g.Latitude,
			Longitude:  g.Longitude,
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

// reconcile tops the result set up to desired. A short insert means
// some generated items collided with existing records; a zero insert
// usually means every generated string already exists verbatim.
func (s *PromptService) reconcile(ctx context.Context, authorID string, desired int, attempted, inserted []models.ExperiencePrompt) []models.ExperiencePrompt {
	if len(inserted) == 0 {
		// Total collision: every generated string likely already exists
		// verbatim, so look the records up by value. Scoped to the same
		// owner so one user's pool can never leak into another's.
		texts := make([]string, len(attempted))
		for i, d := range attempted {
			texts[i] = d.PromptText
		}
		existing, err := s.deps.Store.FindByTexts(ctx, authorID, texts)
		if err != nil {
			logger.Log.Warnf("prompt fallback lookup failed: %v", err)
		}
		if len(existing) == 0 {
			logger.Log.Warn("prompt generation fully collided and fallback lookup found nothing")
		}
		if len(existing) > desired {
			existing = existing[:desired]
		}
		return existing
	}

	reconciled := inserted
	if len(reconciled) < desired {
		excludeIDs := make([]primitive.ObjectID, len(reconciled))
		for i, p := range reconciled {
			excludeIDs[i] = p.ID
		}
		backfill, err := s.deps.Store.FindAdditionalEligible(ctx, authorID, excludeIDs, desired-len(reconciled))
		if err != nil {
			logger.Log.Warnf("prompt backfill failed: %v", err)
		} else {
			reconciled = append(reconciled, backfill...)
		}
	}

	if len(reconciled) > desired {
		reconciled = reconciled[:desired]
	}
	return reconciled
}

// afterSave fires cache invalidation and the generation event. Both
// are fire-and-forget: failures log, never fail the run.
func (s *PromptService) afterSave(ctx context.Context, g models.GeoInfo, authorID string, usage generator.Usage, insertedCount int) {
	tags := []string{cache.OwnerTag(authorID, cache.PromptsTag)}
	if t := cache.CityTag(g.City, cache.PromptsTag); t != "" {
		tags = append(tags, t)
	}
	if err := s.deps.Invalidator.Invalidate(ctx, "prompts generated", tags); err != nil {
		logger.Log.Warnf("prompt cache invalidation failed: %v", err)
	}

	if s.deps.Bus != nil {
		payload, err := json.Marshal(events.GenerationCompleted{
			Kind:      "prompts",
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

func (s *PromptService) logGeneration(ctx context.Context, system, user string, started time.Time, usage generator.Usage, excerpt string, genErr error) {
	if s.deps.Logs == nil {
		return
	}
	entry := models.GenerationLog{
		Kind:          "prompts",
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

func excerptOf(set generator.GeneratedSet) string {
	if len(set.Items) == 0 {
		return ""
	}
	return parser.Truncate(set.Items[0].Prompt, 200)
}

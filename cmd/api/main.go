package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"experience-nv/api/router"
	"experience-nv/cache"
	"experience-nv/config"
	"experience-nv/db"
	_ "experience-nv/docs" // swag generated
	"experience-nv/eventbus"
	"experience-nv/generator"
	"experience-nv/logger"
	"experience-nv/quota"
	"experience-nv/repositories"
	"experience-nv/services"
)

// @title           Experience NV API
// @version         1.0
// @description     Location-aware experience prompt and discovery generation
// @BasePath        /api/v1
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("mongo init failed: %v", err)
		os.Exit(1)
	}

	gen, err := generator.New(ctx)
	if err != nil {
		logger.Log.Errorf("gemini client init failed: %v", err)
		os.Exit(1)
	}

	// Kafka is optional: without it, invalidation and generation events
	// are simply not published.
	var bus eventbus.EventBus
	var invalidator cache.Invalidator = cache.NopInvalidator{}
	if cfg.Kafka.BootstrapServers != "" {
		kb, err := eventbus.NewKafkaEventBus(cfg.Kafka.BootstrapServers)
		if err != nil {
			logger.Log.Warnf("kafka unavailable, events disabled: %v", err)
		} else {
			defer kb.Close()
			bus = kb
			invalidator = cache.BusInvalidator{Bus: kb}
		}
	}

	promptRepo := repositories.NewPromptRepository(db.Database())
	discoveryRepo := repositories.NewDiscoveryRepository(db.Database())
	experienceRepo := repositories.NewExperienceRepository(db.Database())
	logRepo := repositories.NewGenerationLogRepository(db.Database())
	cacheRepo := repositories.NewGenerationCacheRepository(db.Database())

	limiter := quota.NewFromConfig(cfg)

	prompts := services.NewPromptService(services.PromptServiceDeps{
		Generator:   gen,
		Store:       promptRepo,
		Logs:        logRepo,
		Invalidator: invalidator,
		Bus:         bus,
		Limiter:     limiter,
		ModelName:   gen.ModelName(),
	})
	discoveries := services.NewDiscoveryService(services.DiscoveryServiceDeps{
		Generator:   gen,
		Store:       discoveryRepo,
		Logs:        logRepo,
		Invalidator: invalidator,
		Bus:         bus,
		Limiter:     limiter,
		Cache:       cacheRepo,
		CacheTTL:    time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		ModelName:   gen.ModelName(),
	})
	experiences := services.NewExperienceService(experienceRepo)

	r := router.New(router.Deps{
		Prompts:     prompts,
		Discoveries: discoveries,
		Experiences: experiences,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}).Handler(r)

	logger.Log.Infof("listening on %s", cfg.HTTP.Addr)
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

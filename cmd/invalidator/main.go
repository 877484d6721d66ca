package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"experience-nv/config"
	"experience-nv/db"
	"experience-nv/eventbus"
	"experience-nv/events"
	"experience-nv/logger"
	"experience-nv/repositories"
)

// The invalidator consumes cache-invalidation events and evicts the
// matching generation_cache entries by tag. Running it separately
// keeps eviction latency out of the API's request path.
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("mongo init failed: %v", err)
		os.Exit(1)
	}
	cacheRepo := repositories.NewGenerationCacheRepository(db.Database())

	bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.BootstrapServers)
	if err != nil {
		logger.Log.Errorf("kafka init failed: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	handler := func(ctx context.Context, event eventbus.Event) error {
		if event.Type != events.TypeCacheInvalidation {
			logger.Log.Debugf("ignoring event type %s", event.Type)
			return nil
		}
		var inv events.CacheInvalidation
		if err := json.Unmarshal(event.Payload, &inv); err != nil {
			return err
		}
		deleted, err := cacheRepo.DeleteByTags(ctx, inv.Tags)
		if err != nil {
			return err
		}
		logger.InfoWithFields("cache entries evicted", logger.Fields{
			"tags":    inv.Tags,
			"reason":  inv.Reason,
			"deleted": deleted,
		})
		return nil
	}

	logger.Log.Infof("invalidator consuming %s", eventbus.TopicCacheInvalidation.Base())
	if err := bus.Subscribe(ctx, cfg.Kafka.GroupID+"-invalidator", eventbus.TopicCacheInvalidation, handler); err != nil && ctx.Err() == nil {
		logger.Log.Errorf("subscribe failed: %v", err)
		os.Exit(1)
	}
}

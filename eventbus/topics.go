package eventbus

// Global topic declarations. Kept in one place so deployments can
// audit every topic the service touches.

var (
	TopicCacheInvalidation = NewTopic("experience-nv.cache.invalidation")
	TopicGenerationEvents  = NewTopic("experience-nv.generation.events")
)

var AllTopics = []Topic{
	TopicCacheInvalidation,
	TopicGenerationEvents,
}

package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"experience-nv/api/handlers"
	"experience-nv/db"
	_ "experience-nv/docs"
	"experience-nv/repositories"
	"experience-nv/services"
)

// Deps are the wired services the routes dispatch to.
type Deps struct {
	Prompts     *services.PromptService
	Discoveries *services.DiscoveryService
	Experiences *services.ExperienceService
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		promptRepo := repositories.NewPromptRepository(db.Database())
		discoveryRepo := repositories.NewDiscoveryRepository(db.Database())

		api.POST("/prompts/generate", handlers.GeneratePromptsHandler(deps.Prompts))
		api.GET("/prompts", handlers.ListPromptsHandler(promptRepo))

		api.POST("/discoveries/generate", handlers.GenerateDiscoveriesHandler(deps.Discoveries))
		api.GET("/discoveries", handlers.ListDiscoveriesHandler(discoveryRepo))

		api.POST("/experiences", handlers.CreateExperienceHandler(deps.Experiences))
		api.GET("/experiences", handlers.ListExperiencesHandler(deps.Experiences))
		api.GET("/experiences/:id", handlers.GetExperienceHandler(deps.Experiences))
	}

	return r
}

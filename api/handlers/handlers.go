package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"experience-nv/dto"
	"experience-nv/generator"
	"experience-nv/geo"
	"experience-nv/models"
	"experience-nv/repositories"
	"experience-nv/services"
)

// userID reads the caller identity header. Empty means the anonymous
// public pool.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func generateInput(c *gin.Context, req dto.GenerateRequest) services.GenerateInput {
	in := services.GenerateInput{
		SubjectContext:    req.SubjectContext,
		DesiredCount:      req.DesiredCount,
		Interests:         req.Interests,
		ExistingItems:     req.ExistingItems,
		AdditionalContext: req.AdditionalContext,
		ContextURL:        req.ContextURL,
		IncludeHappenings: req.IncludeHappenings,
		AuthorID:          userID(c),
	}
	if req.City != "" || req.Latitude != "" || req.Longitude != "" {
		in.Geo = &models.GeoInfo{City: req.City, Latitude: req.Latitude, Longitude: req.Longitude}
	}
	return in
}

// GeneratePromptsHandler godoc
// @Summary      Generate experience prompts
// @Description  Streams partial snapshots as SSE "partial" events, then a final "records" event with the persisted prompts
// @Tags         prompts
// @Param        X-User-ID  header  string  false  "Caller identity; empty means the public pool"
// @Param        request  body  dto.GenerateRequest  true  "Generation request"
// @Accept       json
// @Produce      text/event-stream
// @Success      200  {array}  dto.PromptDTO
// @Failure      429  {object}  map[string]string
// @Router       /prompts/generate [post]
func GeneratePromptsHandler(svc *services.PromptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		gen, err := svc.Generate(c.Request.Context(), geo.HTTPHeaderSource{Header: c.Request.Header}, generateInput(c, req))
		if err != nil {
			if errors.Is(err, services.ErrQuotaExhausted) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "generation quota exhausted, retry later"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		streamGeneration(c, gen.Generated, func() (any, error) {
			rec := <-gen.Records
			return rec.Records, rec.Err
		})
	}
}

// GenerateDiscoveriesHandler godoc
// @Summary      Generate discovery suggestions
// @Description  Streams partial snapshots as SSE "partial" events, then a final "records" event with the persisted suggestions
// @Tags         discoveries
// @Param        X-User-ID  header  string  false  "Caller identity; empty means the public pool"
// @Param        request  body  dto.GenerateRequest  true  "Generation request"
// @Accept       json
// @Produce      text/event-stream
// @Success      200  {array}  dto.DiscoveryDTO
// @Failure      429  {object}  map[string]string
// @Router       /discoveries/generate [post]
func GenerateDiscoveriesHandler(svc *services.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		gen, err := svc.Generate(c.Request.Context(), geo.HTTPHeaderSource{Header: c.Request.Header}, generateInput(c, req))
		if err != nil {
			if errors.Is(err, services.ErrQuotaExhausted) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "generation quota exhausted, retry later"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		streamGeneration(c, gen.Generated, func() (any, error) {
			rec := <-gen.Records
			return rec.Records, rec.Err
		})
	}
}

// streamGeneration relays the pipeline over SSE. When the client goes
// away we just stop consuming; the pipeline finishes persistence on
// its own.
func streamGeneration(c *gin.Context, partials <-chan generator.GeneratedSet, finish func() (any, error)) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case set, ok := <-partials:
			if !ok {
				records, err := finish()
				if err != nil {
					c.SSEvent("error", gin.H{"error": err.Error()})
					c.Writer.Flush()
					return
				}
				c.SSEvent("records", records)
				c.Writer.Flush()
				return
			}
			c.SSEvent("partial", set)
			c.Writer.Flush()
		}
	}
}

// ListPromptsHandler godoc
// @Summary      List experience prompts
// @Tags         prompts
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        city       query  string  false  "Filter by city"
// @Param        X-User-ID  header  string  false  "Scope to this owner's pool"
// @Produce      json
// @Success      200  {array}  dto.PromptDTO
// @Router       /prompts [get]
func ListPromptsHandler(repo *repositories.PromptRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repositories.ListPromptsOptions
		in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
		in.City = c.Query("city")
		in.AuthorID = userID(c)

		items, err := repo.List(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]dto.PromptDTO, 0, len(items))
		for _, p := range items {
			out = append(out, dto.NewPromptDTO(p))
		}
		c.JSON(http.StatusOK, out)
	}
}

// ListDiscoveriesHandler godoc
// @Summary      List discovery suggestions
// @Tags         discoveries
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        city       query  string  false  "Filter by city"
// @Param        X-User-ID  header  string  false  "Scope to this owner's pool"
// @Produce     json
// @Success      200  {array}  dto.DiscoveryDTO
// @Router       /discoveries [get]
func ListDiscoveriesHandler(repo *repositories.DiscoveryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repositories.ListDiscoveriesOptions
		in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
		in.City = c.Query("city")
		in.AuthorID = userID(c)

		items, err := repo.List(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]dto.DiscoveryDTO, 0, len(items))
		for _, d := range items {
			out = append(out, dto.NewDiscoveryDTO(d))
		}
		c.JSON(http.StatusOK, out)
	}
}

// CreateExperienceHandler godoc
// @Summary      Create an experience
// @Tags         experiences
// @Param        X-User-ID  header  string  false  "Author identity"
// @Param        request  body  dto.CreateExperienceInput  true  "Experience"
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.ExperienceDTO
// @Router       /experiences [post]
func CreateExperienceHandler(svc *services.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.CreateExperienceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := svc.Create(c.Request.Context(), userID(c), in)
		if err != nil {
			if errors.Is(err, services.ErrInvalidID) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prompt_id"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// GetExperienceHandler godoc
// @Summary      Get experience by id
// @Tags         experiences
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.ExperienceDTO
// @Router       /experiences/{id} [get]
func GetExperienceHandler(svc *services.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidID) || errors.Is(err, services.ErrExperienceNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// ListExperiencesHandler godoc
// @Summary      List experiences
// @Tags         experiences
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        city       query  string  false  "Filter by city"
// @Param        author_id  query  string  false  "Filter by author"
// @Produce      json
// @Success      200  {array}  dto.ExperienceDTO
// @Router       /experiences [get]
func ListExperiencesHandler(svc *services.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repositories.ListExperiencesOptions
		in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
		in.City = c.Query("city")
		in.AuthorID = c.Query("author_id")

		out, err := svc.List(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

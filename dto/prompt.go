package dto

import (
	"time"

	"experience-nv/models"
)

// PromptDTO is the client-facing shape of an ExperiencePrompt. The
// provenance meta blob is internal-only and never leaves the service.
type PromptDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	City       string    `json:"city,omitempty"`
	Latitude   string    `json:"latitude,omitempty"`
	Longitude  string    `json:"longitude,omitempty"`
	Activities []string  `json:"activities"`
	Interests  []string  `json:"interests"`
	ModelName  string    `json:"model_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewPromptDTO(p models.ExperiencePrompt) PromptDTO {
	return PromptDTO{
		ID:         p.ID.Hex(),
		Title:      p.Title,
		Prompt:     p.PromptText,
		City:       p.City,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Activities: p.Activities,
		Interests:  p.Interests,
		ModelName:  p.ModelName,
		CreatedAt:  p.CreatedAt,
	}
}

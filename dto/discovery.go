package dto

import (
	"time"

	"experience-nv/models"
)

// DiscoveryDTO is the client-facing shape of a DiscoverySuggestion.
type DiscoveryDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	City       string    `json:"city,omitempty"`
	Activities []string  `json:"activities"`
	Interests  []string  `json:"interests"`
	ModelName  string    `json:"model_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewDiscoveryDTO(d models.DiscoverySuggestion) DiscoveryDTO {
	return DiscoveryDTO{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Text:       d.Text,
		City:       d.City,
		Activities: d.Activities,
		Interests:  d.Interests,
		ModelName:  d.ModelName,
		CreatedAt:  d.CreatedAt,
	}
}

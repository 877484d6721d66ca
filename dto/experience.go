package dto

import (
	"time"

	"experience-nv/models"
)

type ExperienceDTO struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	City      string    `json:"city,omitempty"`
	Latitude  string    `json:"latitude,omitempty"`
	Longitude string    `json:"longitude,omitempty"`
	Interests []string  `json:"interests"`
	MediaURLs []string  `json:"media_urls"`
	PromptID  string    `json:"prompt_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewExperienceDTO(e models.Experience) ExperienceDTO {
	d := ExperienceDTO{
		ID:        e.ID.Hex(),
		AuthorID:  e.AuthorID,
		Title:     e.Title,
		Body:      e.Body,
		City:      e.City,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Interests: e.Interests,
		MediaURLs: e.MediaURLs,
		CreatedAt: e.CreatedAt,
	}
	if e.PromptID != nil {
		d.PromptID = e.PromptID.Hex()
	}
	return d
}

// CreateExperienceInput is the POST /experiences request body.
type CreateExperienceInput struct {
	Title     string   `json:"title" binding:"required"`
	Body      string   `json:"body" binding:"required"`
	City      string   `json:"city"`
	Latitude  string   `json:"latitude"`
	Longitude string   `json:"longitude"`
	Interests []string `json:"interests"`
	MediaURLs []string `json:"media_urls"`
	PromptID  string   `json:"prompt_id"`
}

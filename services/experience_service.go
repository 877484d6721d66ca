package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"experience-nv/dto"
	"experience-nv/models"
	"experience-nv/repositories"
)

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrInvalidID          = errors.New("invalid id")
)

// ExperienceService is the read/write surface for user-authored
// experiences.
type ExperienceService struct {
	repo *repositories.ExperienceRepository
}

func NewExperienceService(repo *repositories.ExperienceRepository) *ExperienceService {
	return &ExperienceService{repo: repo}
}

// Create persists a new experience for authorID. An invalid prompt_id
// is rejected rather than silently dropped.
func (s *ExperienceService) Create(ctx context.Context, authorID string, in dto.CreateExperienceInput) (*dto.ExperienceDTO, error) {
	e := models.Experience{
		AuthorID:  authorID,
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		City:      strings.TrimSpace(in.City),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Interests: in.Interests,
		MediaURLs: in.MediaURLs,
	}
	if in.PromptID != "" {
		id, err := primitive.ObjectIDFromHex(in.PromptID)
		if err != nil {
			return nil, ErrInvalidID
		}
		e.PromptID = &id
	}

	res, err := s.repo.Insert(ctx, &e)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = id
	}
	out := dto.NewExperienceDTO(e)
	return &out, nil
}

func (s *ExperienceService) GetByID(ctx context.Context, hexID string) (*dto.ExperienceDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrInvalidID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	out := dto.NewExperienceDTO(*e)
	return &out, nil
}

func (s *ExperienceService) List(ctx context.Context, in repositories.ListExperiencesOptions) ([]dto.ExperienceDTO, error) {
	items, err := s.repo.List(ctx, in)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExperienceDTO, 0, len(items))
	for _, e := range items {
		out = append(out, dto.NewExperienceDTO(e))
	}
	return out, nil
}

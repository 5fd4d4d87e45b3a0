package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
)

// StoryService manages the dashboard story carousel.
type StoryService struct {
	stories repository.StoryDataSource
}

// NewStoryService creates a new story service.
func NewStoryService(stories repository.StoryDataSource) *StoryService {
	return &StoryService{stories: stories}
}

// ListStories returns the current story set, falling back to the built-in
// defaults when nothing was ever saved.
func (s *StoryService) ListStories(ctx context.Context) (*models.StorySet, error) {
	set, err := s.stories.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.StorySet{Items: models.DefaultStories()}, nil
		}
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}
	set.Items = models.NormalizeStories(set.Items)
	return set, nil
}

// UpdateStories replaces the story set. Exactly four stories are required.
func (s *StoryService) UpdateStories(ctx context.Context, items []models.Story) (*models.StorySet, error) {
	if len(items) != models.StoryCount {
		return nil, apperror.BadRequest("invalid_story_count", "Exactly four stories are required.")
	}

	set, err := s.stories.Replace(ctx, models.NormalizeStories(items))
	if err != nil {
		return nil, fmt.Errorf("failed to save stories: %w", err)
	}
	return set, nil
}

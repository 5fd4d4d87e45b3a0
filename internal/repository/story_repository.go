package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storyDocID = "main_dashboard"

// StoryRepository stores the singleton dashboard story document
type StoryRepository struct {
	c *mongo.Collection
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *mongo.Database) *StoryRepository {
	return &StoryRepository{c: db.Collection("stories")}
}

func (r *StoryRepository) Get(ctx context.Context) (*models.StorySet, error) {
	start := time.Now()
	var set models.StorySet
	err := r.c.FindOne(ctx, bson.M{"_id": storyDocID}).Decode(&set)
	observe("stories", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}
	return &set, nil
}

func (r *StoryRepository) Replace(ctx context.Context, items []models.Story) (*models.StorySet, error) {
	start := time.Now()
	updatedAt := time.Now().UTC()
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": storyDocID},
		bson.M{"$set": bson.M{"items": items, "updated_at": updatedAt}},
		options.Update().SetUpsert(true))
	observe("stories", "updateOne", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to replace stories: %w", err)
	}
	return &models.StorySet{ID: storyDocID, Items: items, UpdatedAt: updatedAt}, nil
}

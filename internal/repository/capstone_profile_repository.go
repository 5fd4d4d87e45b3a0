package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CapstoneProfileRepository handles capstone profile data access
type CapstoneProfileRepository struct {
	c *mongo.Collection
}

// NewCapstoneProfileRepository creates a new capstone profile repository
func NewCapstoneProfileRepository(db *mongo.Database) *CapstoneProfileRepository {
	return &CapstoneProfileRepository{c: db.Collection("capstone_profiles")}
}

func (r *CapstoneProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.CapstoneProfile, error) {
	start := time.Now()
	var profile models.CapstoneProfile
	err := r.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	observe("capstone_profiles", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find capstone profile: %w", err)
	}
	return &profile, nil
}

// Upsert replaces the profile document for its owner wholesale. Every
// rewrite clears mentor_assigned.
func (r *CapstoneProfileRepository) Upsert(ctx context.Context, profile *models.CapstoneProfile) (*models.CapstoneProfile, error) {
	start := time.Now()
	update := bson.M{
		"$set": bson.M{
			"skills":          profile.Skills,
			"required_skills": profile.RequiredSkills,
			"links":           profile.Links,
			"looking_for":     profile.LookingFor,
			"bio":             profile.Bio,
			"availability":    profile.Availability,
			"mentor_assigned": false,
		},
		"$setOnInsert": bson.M{
			"user_id": profile.UserID,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.CapstoneProfile
	err := r.c.FindOneAndUpdate(ctx, bson.M{"user_id": profile.UserID}, update, opts).Decode(&updated)
	observe("capstone_profiles", "findOneAndUpdate", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert capstone profile: %w", err)
	}
	return &updated, nil
}

func (r *CapstoneProfileRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	start := time.Now()
	_, err := r.c.DeleteOne(ctx, bson.M{"user_id": userID})
	observe("capstone_profiles", "deleteOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete capstone profile: %w", err)
	}
	return nil
}

// FindPage returns profiles matching only the base filter, ordered by user id.
func (r *CapstoneProfileRepository) FindPage(ctx context.Context, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	query := baseQuery(filter)
	query["user_id"] = bson.M{"$ne": excludeUserID}

	start := time.Now()
	cursor, err := r.c.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}).SetLimit(int64(limit)))
	observe("capstone_profiles", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to page capstone profiles: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProfiles(ctx, cursor)
}

// FindBySkills returns profiles where any stored skill case-insensitively
// equals one of the given terms.
func (r *CapstoneProfileRepository) FindBySkills(ctx context.Context, skills []string, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	patterns := make([]primitive.Regex, 0, len(skills))
	for _, skill := range skills {
		patterns = append(patterns, primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(skill) + "$",
			Options: "i",
		})
	}

	query := baseQuery(filter)
	query["skills"] = bson.M{"$in": patterns}
	query["user_id"] = bson.M{"$ne": excludeUserID}

	start := time.Now()
	cursor, err := r.c.Find(ctx, query, options.Find().SetLimit(int64(limit)))
	observe("capstone_profiles", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles by skills: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProfiles(ctx, cursor)
}

func (r *CapstoneProfileRepository) FindByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := baseQuery(filter)
	query["user_id"] = bson.M{"$in": userIDs, "$ne": excludeUserID}

	start := time.Now()
	cursor, err := r.c.Find(ctx, query, options.Find().SetLimit(int64(limit)))
	observe("capstone_profiles", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles by user ids: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProfiles(ctx, cursor)
}

// Sample returns a random selection of profiles excluding the given user.
func (r *CapstoneProfileRepository) Sample(ctx context.Context, excludeUserID primitive.ObjectID, size int) ([]*models.CapstoneProfile, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": bson.M{"$ne": excludeUserID}}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	start := time.Now()
	cursor, err := r.c.Aggregate(ctx, pipeline)
	observe("capstone_profiles", "aggregate", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to sample capstone profiles: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProfiles(ctx, cursor)
}

func baseQuery(filter models.DiscoveryQuery) bson.M {
	query := bson.M{}
	if filter.LookingFor != "" {
		query["looking_for"] = filter.LookingFor
	}
	if filter.MentorAssigned != nil {
		query["mentor_assigned"] = *filter.MentorAssigned
	}
	return query
}

func decodeProfiles(ctx context.Context, cursor *mongo.Cursor) ([]*models.CapstoneProfile, error) {
	var profiles []*models.CapstoneProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode capstone profiles: %w", err)
	}
	return profiles, nil
}

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

// MentorProfileRepository handles mentor profile data access
type MentorProfileRepository struct {
	c *mongo.Collection
}

// NewMentorProfileRepository creates a new mentor profile repository
func NewMentorProfileRepository(db *mongo.Database) *MentorProfileRepository {
	return &MentorProfileRepository{c: db.Collection("mentor_profiles")}
}

func (r *MentorProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.MentorProfile, error) {
	start := time.Now()
	var profile models.MentorProfile
	err := r.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	observe("mentor_profiles", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mentor profile: %w", err)
	}
	return &profile, nil
}

func (r *MentorProfileRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MentorProfile, error) {
	start := time.Now()
	var profile models.MentorProfile
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	observe("mentor_profiles", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mentor profile: %w", err)
	}
	return &profile, nil
}

// Upsert replaces the mentor profile wholesale. Every rewrite resets
// approved_by_admin and puts the profile back into the moderation queue.
func (r *MentorProfileRepository) Upsert(ctx context.Context, profile *models.MentorProfile) (*models.MentorProfile, error) {
	start := time.Now()
	update := bson.M{
		"$set": bson.M{
			"domain":            profile.Domain,
			"experience_years":  profile.ExperienceYears,
			"expertise":         profile.Expertise,
			"links":             profile.Links,
			"bio":               profile.Bio,
			"availability":      profile.Availability,
			"approved_by_admin": false,
		},
		"$setOnInsert": bson.M{
			"user_id": profile.UserID,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.MentorProfile
	err := r.c.FindOneAndUpdate(ctx, bson.M{"user_id": profile.UserID}, update, opts).Decode(&updated)
	observe("mentor_profiles", "findOneAndUpdate", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert mentor profile: %w", err)
	}
	return &updated, nil
}

func (r *MentorProfileRepository) ListByApproval(ctx context.Context, approved bool) ([]*models.MentorProfile, error) {
	start := time.Now()
	cursor, err := r.c.Find(ctx, bson.M{"approved_by_admin": approved},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	observe("mentor_profiles", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentor profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.MentorProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode mentor profiles: %w", err)
	}
	return profiles, nil
}

// SearchApproved lists approved mentor profiles sorted by domain. A search
// term matches domain or expertise case-insensitively, or any of the given
// user ids (pre-resolved from a name lookup); otherwise an exact domain
// filter applies when set.
func (r *MentorProfileRepository) SearchApproved(ctx context.Context, domain, search string, userIDs []primitive.ObjectID) ([]*models.MentorProfile, error) {
	query := bson.M{"approved_by_admin": true}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		or := []bson.M{
			{"domain": pattern},
			{"expertise": pattern},
		}
		if len(userIDs) > 0 {
			or = append(or, bson.M{"user_id": bson.M{"$in": userIDs}})
		}
		query["$or"] = or
	} else if domain != "" {
		query["domain"] = domain
	}

	start := time.Now()
	cursor, err := r.c.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "domain", Value: 1}}))
	observe("mentor_profiles", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to search mentor profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.MentorProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode mentor profiles: %w", err)
	}
	return profiles, nil
}

func (r *MentorProfileRepository) SetApproval(ctx context.Context, id primitive.ObjectID, approved bool) (*models.MentorProfile, error) {
	start := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.MentorProfile
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"approved_by_admin": approved}}, opts).Decode(&updated)
	observe("mentor_profiles", "findOneAndUpdate", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set mentor approval: %w", err)
	}
	return &updated, nil
}

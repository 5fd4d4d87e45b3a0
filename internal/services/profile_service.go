package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errProfileNotFound = apperror.NotFound("profile_not_found", "Profile not found")

// ProfileService manages capstone profiles and their public projection.
type ProfileService struct {
	profiles repository.CapstoneProfileDataSource
	users    repository.UserDataSource
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles repository.CapstoneProfileDataSource, users repository.UserDataSource) *ProfileService {
	return &ProfileService{profiles: profiles, users: users}
}

// GetMyProfile returns the caller's capstone profile.
func (s *ProfileService) GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.CapstoneProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errProfileNotFound
		}
		return nil, fmt.Errorf("failed to load capstone profile: %w", err)
	}
	return profile, nil
}

// UpsertMyProfile replaces the caller's capstone profile. All fields are
// required after trimming; a rewrite always clears mentor_assigned.
func (s *ProfileService) UpsertMyProfile(ctx context.Context, userID primitive.ObjectID, req *models.ProfileUpsertRequest) (*models.CapstoneProfile, error) {
	skills := cleanList(req.Skills)
	required := cleanList(req.RequiredSkills)
	links := cleanList(req.Links)
	bio := strings.TrimSpace(req.Bio)
	availability := strings.TrimSpace(req.Availability)

	if len(skills) == 0 || len(required) == 0 || len(links) == 0 || bio == "" || availability == "" {
		return nil, apperror.BadRequest("profile_incomplete", "All profile fields are required.")
	}

	profile := &models.CapstoneProfile{
		UserID:         userID,
		Skills:         skills,
		RequiredSkills: required,
		Links:          links,
		LookingFor:     models.LookingFor(req.LookingFor),
		Bio:            bio,
		Availability:   availability,
	}

	updated, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert capstone profile: %w", err)
	}
	return updated, nil
}

// GetPublicProfile returns the profile card for any non-admin user.
func (s *ProfileService) GetPublicProfile(ctx context.Context, rawUserID string) (*models.PublicProfile, error) {
	userID, err := primitive.ObjectIDFromHex(rawUserID)
	if err != nil {
		return nil, apperror.BadRequest("invalid_user_id", "Invalid user id")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errProfileNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Role == models.RoleAdmin {
		return nil, errProfileNotFound
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errProfileNotFound
		}
		return nil, fmt.Errorf("failed to load capstone profile: %w", err)
	}

	return &models.PublicProfile{
		ID:             profile.ID.Hex(),
		UserID:         userID.Hex(),
		Name:           user.Name,
		Role:           user.Role,
		Skills:         profile.Skills,
		LookingFor:     profile.LookingFor,
		MentorAssigned: profile.MentorAssigned,
		Bio:            profile.Bio,
		Availability:   profile.Availability,
	}, nil
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

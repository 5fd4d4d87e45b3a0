package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/cache"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errMentorNotFound = apperror.NotFound("mentor_not_found", "Mentor not found")

// MentorService serves the public approved-mentor directory.
type MentorService struct {
	mentors repository.MentorProfileDataSource
	users   repository.UserDataSource
	cache   *cache.MentorCache
}

// NewMentorService creates a new mentor service.
func NewMentorService(
	mentors repository.MentorProfileDataSource,
	users repository.UserDataSource,
	mentorCache *cache.MentorCache,
) *MentorService {
	return &MentorService{mentors: mentors, users: users, cache: mentorCache}
}

// ListMentors returns approved mentors sorted by domain. search matches
// name, domain, or expertise; domain is an exact filter otherwise. The
// unfiltered listing is cached.
func (s *MentorService) ListMentors(ctx context.Context, domain, search string) ([]models.MentorListing, error) {
	unfiltered := domain == "" && search == ""
	if unfiltered {
		if cached := s.cache.Get(); cached != nil {
			return cached, nil
		}
	}

	var userIDs []primitive.ObjectID
	if search != "" {
		ids, err := s.users.FindIDsByName(ctx, search)
		if err != nil {
			return nil, fmt.Errorf("failed to search users by name: %w", err)
		}
		userIDs = ids
	}

	profiles, err := s.mentors.SearchApproved(ctx, domain, search, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.UserID)
	}
	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor accounts: %w", err)
	}

	listings := make([]models.MentorListing, 0, len(profiles))
	for _, profile := range profiles {
		owner, ok := owners[profile.UserID]
		if !ok {
			continue
		}
		listings = append(listings, toListing(profile, owner))
	}

	if unfiltered {
		s.cache.Set(listings)
	}
	return listings, nil
}

// GetMentor resolves an approved mentor by profile id, falling back to
// user id for older frontend links.
func (s *MentorService) GetMentor(ctx context.Context, rawID string) (*models.MentorListing, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperror.BadRequest("invalid_mentor_id", "Invalid mentor id")
	}

	profile, err := s.mentors.FindByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load mentor profile: %w", err)
	}
	if profile == nil || !profile.ApprovedByAdmin {
		profile, err = s.mentors.FindByUserID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errMentorNotFound
			}
			return nil, fmt.Errorf("failed to load mentor profile: %w", err)
		}
	}
	if !profile.ApprovedByAdmin {
		return nil, errMentorNotFound
	}

	owner, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errMentorNotFound
		}
		return nil, fmt.Errorf("failed to load mentor account: %w", err)
	}

	listing := toListing(profile, owner)
	return &listing, nil
}

func toListing(profile *models.MentorProfile, owner *models.User) models.MentorListing {
	return models.MentorListing{
		ID:              profile.ID.Hex(),
		UserID:          profile.UserID.Hex(),
		Name:            owner.Name,
		Domain:          profile.Domain,
		ExperienceYears: profile.ExperienceYears,
		Expertise:       profile.Expertise,
		Bio:             profile.Bio,
		Availability:    profile.Availability,
		AvatarURL:       owner.AvatarURL,
	}
}

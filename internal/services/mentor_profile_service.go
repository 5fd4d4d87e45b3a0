package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/cache"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MentorProfileService manages a mentor's own profile and the admin
// moderation queue.
type MentorProfileService struct {
	mentors  repository.MentorProfileDataSource
	users    repository.UserDataSource
	notifier NotificationDispatcher
	cache    *cache.MentorCache
}

// NewMentorProfileService creates a new mentor profile service.
func NewMentorProfileService(
	mentors repository.MentorProfileDataSource,
	users repository.UserDataSource,
	notifier NotificationDispatcher,
	mentorCache *cache.MentorCache,
) *MentorProfileService {
	return &MentorProfileService{
		mentors:  mentors,
		users:    users,
		notifier: notifier,
		cache:    mentorCache,
	}
}

// GetMyProfile returns the caller's mentor profile.
func (s *MentorProfileService) GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.MentorProfile, error) {
	profile, err := s.mentors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("mentor_profile_not_found", "Mentor profile not found")
		}
		return nil, fmt.Errorf("failed to load mentor profile: %w", err)
	}
	return profile, nil
}

// UpsertMyProfile replaces the caller's mentor profile. The rewrite drops
// admin approval and notifies admins that a review is pending.
func (s *MentorProfileService) UpsertMyProfile(ctx context.Context, user *models.User, req *models.MentorUpsertRequest) (*models.MentorProfile, error) {
	profile := &models.MentorProfile{
		UserID:          user.ID,
		Domain:          req.Domain,
		ExperienceYears: req.ExperienceYears,
		Expertise:       cleanList(req.Expertise),
		Links:           cleanList(req.Links),
		Bio:             req.Bio,
		Availability:    req.Availability,
	}

	updated, err := s.mentors.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert mentor profile: %w", err)
	}

	s.cache.Invalidate()
	go s.notifier.MentorApplicationCreated(context.Background(), user, updated)

	logger.Info("Mentor profile submitted for review",
		zap.String("user_id", user.ID.Hex()),
		zap.String("domain", updated.Domain))
	return updated, nil
}

// ListPending returns mentor profiles awaiting approval, joined with the
// owning accounts.
func (s *MentorProfileService) ListPending(ctx context.Context) ([]models.PendingMentor, error) {
	profiles, err := s.mentors.ListByApproval(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending mentors: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.UserID)
	}
	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor accounts: %w", err)
	}

	pending := make([]models.PendingMentor, 0, len(profiles))
	for _, profile := range profiles {
		owner, ok := owners[profile.UserID]
		if !ok {
			continue
		}
		pending = append(pending, models.PendingMentor{
			ID:              profile.ID.Hex(),
			UserID:          profile.UserID.Hex(),
			Name:            owner.Name,
			Email:           owner.Email,
			Domain:          profile.Domain,
			ExperienceYears: profile.ExperienceYears,
			Expertise:       profile.Expertise,
			Links:           profile.Links,
			Bio:             profile.Bio,
			Availability:    profile.Availability,
		})
	}
	return pending, nil
}

// Approve flips a mentor profile to approved and emails the mentor.
func (s *MentorProfileService) Approve(ctx context.Context, rawProfileID string) error {
	profile, err := s.setApproval(ctx, rawProfileID, true)
	if err != nil {
		return err
	}

	s.cache.Invalidate()

	owner, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		logger.Warn("Approved mentor has no account", zap.String("profile_id", profile.ID.Hex()))
		return nil
	}
	go s.notifier.MentorApplicationApproved(context.Background(), owner)
	return nil
}

// Reject sends a mentor profile back to the unapproved pool.
func (s *MentorProfileService) Reject(ctx context.Context, rawProfileID string) error {
	if _, err := s.setApproval(ctx, rawProfileID, false); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *MentorProfileService) setApproval(ctx context.Context, rawProfileID string, approved bool) (*models.MentorProfile, error) {
	profileID, err := primitive.ObjectIDFromHex(rawProfileID)
	if err != nil {
		return nil, apperror.BadRequest("invalid_mentor_id", "Invalid mentor id")
	}
	profile, err := s.mentors.SetApproval(ctx, profileID, approved)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errMentorNotFound
		}
		return nil, fmt.Errorf("failed to set mentor approval: %w", err)
	}
	return profile, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.uber.org/zap"
)

// ImageStore validates and stores uploaded avatar images.
type ImageStore interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}

// UserService covers the session user, onboarding progression, and
// avatar uploads.
type UserService struct {
	users    repository.UserDataSource
	capstone repository.CapstoneProfileDataSource
	mentors  repository.MentorProfileDataSource
	images   ImageStore
}

// NewUserService creates a new user service. images may be nil when no
// object storage is configured.
func NewUserService(
	users repository.UserDataSource,
	capstone repository.CapstoneProfileDataSource,
	mentors repository.MentorProfileDataSource,
	images ImageStore,
) *UserService {
	return &UserService{
		users:    users,
		capstone: capstone,
		mentors:  mentors,
		images:   images,
	}
}

// OnboardingStatus reports how far the account has progressed. A complete
// profile implies the role choice even if it was never recorded.
func (s *UserService) OnboardingStatus(ctx context.Context, user *models.User) (*models.OnboardingStatus, error) {
	status := &models.OnboardingStatus{
		Role:         user.Role,
		RoleSelected: user.RoleSelected,
	}

	if user.Role == models.RoleMentor {
		profile, err := s.mentors.FindByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load mentor profile: %w", err)
		}
		if profile != nil {
			status.HasProfile = true
			status.MentorApproved = profile.ApprovedByAdmin
		}
	} else {
		profile, err := s.capstone.FindByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load capstone profile: %w", err)
		}
		status.HasProfile = profile.IsComplete()
	}

	if status.HasProfile {
		status.RoleSelected = true
	}
	return status, nil
}

// SelectRole records the onboarding role choice.
func (s *UserService) SelectRole(ctx context.Context, user *models.User, role models.Role) (*models.OnboardingStatus, error) {
	if role != models.RoleUser && role != models.RoleMentor {
		return nil, apperror.BadRequest("invalid_action", "Role must be USER or MENTOR")
	}
	if err := s.users.SetRole(ctx, user.ID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("user_not_found", "User not found")
		}
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	return &models.OnboardingStatus{Role: role, RoleSelected: true}, nil
}

// UploadAvatar stores the image and records its public URL on the account.
func (s *UserService) UploadAvatar(ctx context.Context, user *models.User, imageData, contentType string) (string, error) {
	if s.images == nil {
		return "", apperror.New(503, "storage_unavailable", "Avatar storage is not configured")
	}
	if err := s.images.ValidateImageType(contentType); err != nil {
		return "", apperror.BadRequest("invalid_image", err.Error())
	}
	if err := s.images.ValidateImageSize(imageData); err != nil {
		return "", apperror.BadRequest("invalid_image", err.Error())
	}

	key := fmt.Sprintf("avatars/%s", user.ID.Hex())
	url, err := s.images.UploadImage(ctx, imageData, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.users.SetAvatarURL(ctx, user.ID, url); err != nil {
		return "", fmt.Errorf("failed to save avatar url: %w", err)
	}
	logger.Info("Avatar updated", zap.String("user_id", user.ID.Hex()))
	return url, nil
}

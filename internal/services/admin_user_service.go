package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminUserService implements the admin moderation actions over accounts.
type AdminUserService struct {
	users    repository.UserDataSource
	profiles repository.CapstoneProfileDataSource
	actions  map[string]func(context.Context, primitive.ObjectID) error
}

// NewAdminUserService creates a new admin user service.
func NewAdminUserService(users repository.UserDataSource, profiles repository.CapstoneProfileDataSource) *AdminUserService {
	s := &AdminUserService{users: users, profiles: profiles}
	s.actions = map[string]func(context.Context, primitive.ObjectID) error{
		"make_admin": func(ctx context.Context, id primitive.ObjectID) error {
			return s.users.SetRole(ctx, id, models.RoleAdmin)
		},
		"remove_admin": func(ctx context.Context, id primitive.ObjectID) error {
			return s.users.SetRole(ctx, id, models.RoleUser)
		},
		"block": func(ctx context.Context, id primitive.ObjectID) error {
			return s.users.SetBlocked(ctx, id, true)
		},
		"unblock": func(ctx context.Context, id primitive.ObjectID) error {
			return s.users.SetBlocked(ctx, id, false)
		},
		"reset_profile": func(ctx context.Context, id primitive.ObjectID) error {
			return s.profiles.DeleteByUserID(ctx, id)
		},
	}
	return s
}

// ListUsers returns every account, newest first.
func (s *AdminUserService) ListUsers(ctx context.Context) ([]models.AdminUserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]models.AdminUserView, 0, len(users))
	for _, user := range users {
		views = append(views, models.AdminUserView{
			ID:        user.ID.Hex(),
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			Blocked:   user.Blocked,
			CreatedAt: user.CreatedAt,
			LastLogin: user.LastLogin,
		})
	}
	return views, nil
}

// UpdateUser applies one moderation action from the closed action set.
func (s *AdminUserService) UpdateUser(ctx context.Context, rawUserID, action string) error {
	userID, err := primitive.ObjectIDFromHex(rawUserID)
	if err != nil {
		return apperror.BadRequest("invalid_user_id", "Invalid user id")
	}

	apply, ok := s.actions[action]
	if !ok {
		return apperror.BadRequest("invalid_action", "Invalid admin action")
	}

	if err := apply(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user_not_found", "User not found")
		}
		return fmt.Errorf("failed to apply admin action %s: %w", action, err)
	}

	logger.Info("Admin action applied",
		zap.String("action", action),
		zap.String("target_user_id", rawUserID))
	return nil
}

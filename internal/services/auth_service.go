package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/googleauth"
	"github.com/nyahub/nya-api/pkg/jwt"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthResult carries a resolved user together with a fresh token pair.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// AuthService implements Google sign-in, the development login, and
// refresh token rotation.
type AuthService struct {
	users    repository.UserDataSource
	verifier googleauth.Verifier
	tokens   *jwt.TokenManager
	session  config.SessionConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserDataSource,
	verifier googleauth.Verifier,
	tokens *jwt.TokenManager,
	session config.SessionConfig,
) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		session:  session,
	}
}

// LoginWithGoogle verifies a Google ID token, provisions the account on
// first login, and issues a session token pair.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		logger.Warn("Google token verification failed", zap.Error(err))
		return nil, apperror.Unauthorized("invalid_google_token", "Invalid Google token").WithCause(err)
	}

	if identity.Email == "" || !s.isAllowedDomain(identity.Email) {
		return nil, apperror.Forbidden("invalid_domain", s.domainMessage())
	}

	name := identity.Name
	if name == "" {
		name = "Student"
	}

	user, err := s.findOrCreate(ctx, identity.Email, name)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// DevLogin signs in by bare email. Only wired up when the dev login flag
// is enabled.
func (s *AuthService) DevLogin(ctx context.Context, email, name string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !s.isAllowedDomain(email) {
		return nil, apperror.Forbidden("invalid_domain", s.domainMessage())
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user, err := s.findOrCreate(ctx, email, name)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Refresh validates a refresh token and rotates the whole pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("invalid_token", "Invalid token").WithCause(err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("invalid_token", "Invalid token subject")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("user_not_found", "User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) findOrCreate(ctx context.Context, email, name string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if touchErr := s.users.TouchLogin(ctx, user.ID); touchErr != nil {
			logger.Warn("Failed to update last login", zap.Error(touchErr))
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.Info("Provisioned new account", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResult, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) isAllowedDomain(email string) bool {
	if s.session.AllowAllDomains {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+s.session.AllowedDomain)
}

func (s *AuthService) domainMessage() string {
	return fmt.Sprintf("Only @%s emails are allowed", s.session.AllowedDomain)
}

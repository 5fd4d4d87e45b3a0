package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/googleauth"
	"github.com/nyahub/nya-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		JWTSecret:        "test-secret",
		JWTIssuer:        "nya-api-test",
		AccessTTLMinutes: 15,
		RefreshTTLDays:   7,
		AllowedDomain:    "thapar.edu",
	}
}

func newAuthService(session config.SessionConfig) (*services.AuthService, *MockUserRepository, *MockVerifier) {
	users := new(MockUserRepository)
	verifier := new(MockVerifier)
	tokens := jwt.NewTokenManager(session.JWTSecret, session.JWTIssuer, session.AccessTTLMinutes, session.RefreshTTLDays)
	return services.NewAuthService(users, verifier, tokens, session), users, verifier
}

func TestAuthService_LoginWithGoogle_FirstLogin(t *testing.T) {
	service, users, verifier := newAuthService(testSessionConfig())
	ctx := context.Background()

	verifier.On("Verify", ctx, "id-token").Return(&googleauth.Identity{
		Email: "riya@thapar.edu",
		Name:  "Riya",
	}, nil).Once()
	users.On("FindByEmail", ctx, "riya@thapar.edu").Return(nil, repository.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "riya@thapar.edu" && u.Name == "Riya" && u.Role == models.RoleUser
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = primitive.NewObjectID()
	}).Return(nil).Once()

	result, err := service.LoginWithGoogle(ctx, "id-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
	users.AssertExpectations(t)
}

func TestAuthService_LoginWithGoogle_ExistingUserTouchesLogin(t *testing.T) {
	service, users, verifier := newAuthService(testSessionConfig())
	ctx := context.Background()
	userID := primitive.NewObjectID()

	verifier.On("Verify", ctx, "id-token").Return(&googleauth.Identity{
		Email: "dev@thapar.edu",
		Name:  "Dev",
	}, nil).Once()
	users.On("FindByEmail", ctx, "dev@thapar.edu").Return(&models.User{
		ID:    userID,
		Email: "dev@thapar.edu",
		Role:  models.RoleMentor,
	}, nil).Once()
	users.On("TouchLogin", ctx, userID).Return(nil).Once()

	result, err := service.LoginWithGoogle(ctx, "id-token")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleMentor, result.User.Role)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginWithGoogle_WrongDomain(t *testing.T) {
	service, users, verifier := newAuthService(testSessionConfig())
	ctx := context.Background()

	verifier.On("Verify", ctx, "id-token").Return(&googleauth.Identity{
		Email: "stranger@gmail.com",
		Name:  "Stranger",
	}, nil).Once()

	_, err := service.LoginWithGoogle(ctx, "id-token")
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid_domain", appErr.Code)
	assert.Equal(t, 403, appErr.Status)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_LoginWithGoogle_AllowAllDomains(t *testing.T) {
	session := testSessionConfig()
	session.AllowAllDomains = true
	service, users, verifier := newAuthService(session)
	ctx := context.Background()

	verifier.On("Verify", ctx, "id-token").Return(&googleauth.Identity{
		Email: "anyone@example.com",
	}, nil).Once()
	users.On("FindByEmail", ctx, "anyone@example.com").Return(nil, repository.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		// No Google name falls back to a placeholder.
		return u.Name == "Student"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = primitive.NewObjectID()
	}).Return(nil).Once()

	_, err := service.LoginWithGoogle(ctx, "id-token")
	assert.NoError(t, err)
}

func TestAuthService_LoginWithGoogle_BadToken(t *testing.T) {
	service, _, verifier := newAuthService(testSessionConfig())
	ctx := context.Background()

	verifier.On("Verify", ctx, "garbage").Return(nil, errors.New("token expired")).Once()

	_, err := service.LoginWithGoogle(ctx, "garbage")
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid_google_token", appErr.Code)
	assert.Equal(t, 401, appErr.Status)
}

func TestAuthService_DevLogin_NormalizesEmail(t *testing.T) {
	service, users, _ := newAuthService(testSessionConfig())
	ctx := context.Background()

	users.On("FindByEmail", ctx, "ankit@thapar.edu").Return(nil, repository.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ankit@thapar.edu" && u.Name == "ankit"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = primitive.NewObjectID()
	}).Return(nil).Once()

	_, err := service.DevLogin(ctx, "  Ankit@Thapar.edu ", "")
	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestAuthService_Refresh_RotatesBothTokens(t *testing.T) {
	session := testSessionConfig()
	service, users, _ := newAuthService(session)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	tokens := jwt.NewTokenManager(session.JWTSecret, session.JWTIssuer, session.AccessTTLMinutes, session.RefreshTTLDays)
	refresh, err := tokens.GenerateRefreshToken(userID.Hex())
	assert.NoError(t, err)

	users.On("FindByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleUser}, nil).Once()

	result, err := service.Refresh(ctx, refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	session := testSessionConfig()
	service, _, _ := newAuthService(session)

	tokens := jwt.NewTokenManager(session.JWTSecret, session.JWTIssuer, session.AccessTTLMinutes, session.RefreshTTLDays)
	access, err := tokens.GenerateAccessToken(primitive.NewObjectID().Hex())
	assert.NoError(t, err)

	_, err = service.Refresh(context.Background(), access)
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid_token", appErr.Code)
}

func TestAuthService_Refresh_UserDeleted(t *testing.T) {
	session := testSessionConfig()
	service, users, _ := newAuthService(session)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	tokens := jwt.NewTokenManager(session.JWTSecret, session.JWTIssuer, session.AccessTTLMinutes, session.RefreshTTLDays)
	refresh, err := tokens.GenerateRefreshToken(userID.Hex())
	assert.NoError(t, err)

	users.On("FindByID", ctx, userID).Return(nil, repository.ErrNotFound).Once()

	_, err = service.Refresh(ctx, refresh)
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "user_not_found", appErr.Code)
	assert.Equal(t, 401, appErr.Status)
}

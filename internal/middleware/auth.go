package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrentUserContextKey is the context key holding the authenticated user.
const CurrentUserContextKey = "current_user"

var (
	ErrUserNotInContext = errors.New("user not found in context")
	ErrInvalidUserType  = errors.New("invalid user type in context")
)

// AuthMiddleware validates the access token cookie, loads the account and
// rejects blocked users.
func AuthMiddleware(tokenManager *jwt.TokenManager, users repository.UserDataSource, session config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.AccessCookieName)
		if err != nil || cookie == "" {
			abortWithAppError(c, apperror.Unauthorized("auth_required", "Authentication required"))
			return
		}

		claims, err := tokenManager.ValidateToken(cookie, jwt.KindAccess)
		if err != nil {
			abortWithAppError(c, apperror.Unauthorized("invalid_token", "Invalid token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortWithAppError(c, apperror.Unauthorized("invalid_token", "Invalid token subject"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithAppError(c, apperror.Unauthorized("user_not_found", "User not found"))
				return
			}
			abortWithAppError(c, apperror.Internal("Failed to load user"))
			return
		}
		if user.Blocked {
			abortWithAppError(c, apperror.Forbidden("user_blocked", "User account is blocked"))
			return
		}

		c.Set(CurrentUserContextKey, user)
		c.Next()
	}
}

// RequireAdmin rejects non-ADMIN callers. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWithAppError(c, apperror.Unauthorized("auth_required", "Authentication required"))
			return
		}
		if user.Role != models.RoleAdmin {
			abortWithAppError(c, apperror.Forbidden("forbidden", "Admin access required"))
			return
		}
		c.Next()
	}
}

// RequireOnboardingComplete blocks callers whose profile is missing, and
// mentors whose profile awaits moderation. Admins pass through.
func RequireOnboardingComplete(capstones repository.CapstoneProfileDataSource, mentors repository.MentorProfileDataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWithAppError(c, apperror.Unauthorized("auth_required", "Authentication required"))
			return
		}
		if user.Role == models.RoleAdmin {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if user.Role == models.RoleMentor {
			profile, err := mentors.FindByUserID(ctx, user.ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					abortWithAppError(c, apperror.Forbidden("profile_incomplete", "Complete your mentor profile"))
					return
				}
				abortWithAppError(c, apperror.Internal("Failed to load mentor profile"))
				return
			}
			if !profile.ApprovedByAdmin {
				abortWithAppError(c, apperror.Forbidden("mentor_pending", "Mentor profile pending approval"))
				return
			}
			c.Next()
			return
		}

		if _, err := capstones.FindByUserID(ctx, user.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithAppError(c, apperror.Forbidden("profile_incomplete", "Complete your profile"))
				return
			}
			abortWithAppError(c, apperror.Internal("Failed to load profile"))
			return
		}
		c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from the gin context.
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	val, exists := c.Get(CurrentUserContextKey)
	if !exists {
		return nil, ErrUserNotInContext
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil, ErrInvalidUserType
	}
	return user, nil
}

// SetAuthCookies sets the access and refresh token cookies.
func SetAuthCookies(c *gin.Context, session config.SessionConfig, accessToken, refreshToken string) {
	c.SetSameSite(sameSiteMode(session.CookieSameSite))
	c.SetCookie(session.AccessCookieName, accessToken,
		session.AccessTTLMinutes*60, "/", session.CookieDomain, session.CookieSecure, true)
	c.SetCookie(session.RefreshCookieName, refreshToken,
		session.RefreshTTLDays*86400, "/", session.CookieDomain, session.CookieSecure, true)
}

// ClearAuthCookies removes both session cookies.
func ClearAuthCookies(c *gin.Context, session config.SessionConfig) {
	c.SetSameSite(sameSiteMode(session.CookieSameSite))
	c.SetCookie(session.AccessCookieName, "", -1, "/", session.CookieDomain, session.CookieSecure, true)
	c.SetCookie(session.RefreshCookieName, "", -1, "/", session.CookieDomain, session.CookieSecure, true)
}

func sameSiteMode(value string) http.SameSite {
	switch value {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func abortWithAppError(c *gin.Context, err *apperror.Error) {
	c.AbortWithStatusJSON(err.Status, err.Payload())
}

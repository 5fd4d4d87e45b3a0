package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.uber.org/zap"
)

// AuthHandler handles login, refresh, and logout.
type AuthHandler struct {
	service services.AuthServiceInterface
	session config.SessionConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceInterface, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{service: service, session: session}
}

// GoogleLogin handles POST /api/auth/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookies(c, h.session, result.AccessToken, result.RefreshToken)
	logger.Info("User logged in", zap.String("user_id", result.User.ID.Hex()))
	c.JSON(http.StatusOK, models.AuthResponse{User: result.User.ToPublic()})
}

// DevLogin handles POST /api/auth/dev-login. Only routed when the dev
// login flag is enabled.
func (h *AuthHandler) DevLogin(c *gin.Context) {
	var req models.DevLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.DevLogin(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookies(c, h.session, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, models.AuthResponse{User: result.User.ToPublic()})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.session.RefreshCookieName)
	if err != nil || cookie == "" {
		respondError(c, apperror.Unauthorized("refresh_required", "Refresh token required"))
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), cookie)
	if err != nil {
		middleware.ClearAuthCookies(c, h.session)
		respondError(c, err)
		return
	}

	middleware.SetAuthCookies(c, h.session, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, models.AuthResponse{User: result.User.ToPublic()})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookies(c, h.session)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

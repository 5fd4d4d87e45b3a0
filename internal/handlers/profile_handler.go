package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
)

// ProfileHandler handles capstone profile endpoints.
type ProfileHandler struct {
	profiles services.ProfileServiceInterface
	users    services.UserServiceInterface
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles services.ProfileServiceInterface, users services.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users}
}

// GetMine handles GET /api/profiles/me
func (h *ProfileHandler) GetMine(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}
	if user.Role == models.RoleMentor {
		respondError(c, apperror.Forbidden("forbidden", "Mentors manage their profile under /api/mentors/me"))
		return
	}

	profile, err := h.profiles.GetMyProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpsertMine handles POST /api/profiles/me
func (h *ProfileHandler) UpsertMine(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}
	if user.Role == models.RoleMentor {
		respondError(c, apperror.Forbidden("forbidden", "Mentors manage their profile under /api/mentors/me"))
		return
	}

	var req models.ProfileUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profiles.UpsertMyProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPublic handles GET /api/profiles/:user_id
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	profile, err := h.profiles.GetPublicProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadAvatar handles POST /api/profiles/me/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	var req models.AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	url, err := h.users.UploadAvatar(c.Request.Context(), user, req.ImageData, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

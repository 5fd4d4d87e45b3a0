package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
)

// OnboardingHandler handles onboarding status and role selection.
type OnboardingHandler struct {
	service services.UserServiceInterface
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(service services.UserServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Status handles GET /api/onboarding/status
func (h *OnboardingHandler) Status(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	status, err := h.service.OnboardingStatus(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SelectRole handles POST /api/onboarding/role
func (h *OnboardingHandler) SelectRole(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	var req models.RoleSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := h.service.SelectRole(c.Request.Context(), user, models.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

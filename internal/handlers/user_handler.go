package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
)

const (
	discoverDefaultLimit    = 20
	discoverMaxLimit        = 500
	recommendedDefaultLimit = 10
	recommendedMaxLimit     = 30
)

// UserHandler handles the session user endpoint and discovery.
type UserHandler struct {
	discovery services.DiscoveryServiceInterface
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(discovery services.DiscoveryServiceInterface) *UserHandler {
	return &UserHandler{discovery: discovery}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}

// Discover handles GET /api/users/discover
func (h *UserHandler) Discover(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	query := models.DiscoveryQuery{
		Skills:     splitSkills(c.Query("skills")),
		Search:     strings.TrimSpace(c.Query("search")),
		LookingFor: c.Query("looking_for"),
		Limit:      clampedInt(c.Query("limit"), discoverDefaultLimit, 1, discoverMaxLimit),
		Page:       clampedInt(c.Query("page"), 1, 1, 1<<30),
	}
	if raw, set := c.GetQuery("mentor_assigned"); set {
		if assigned, err := strconv.ParseBool(raw); err == nil {
			query.MentorAssigned = &assigned
		}
	}

	results, err := h.discovery.DiscoverUsers(c.Request.Context(), user.ID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "page": query.Page, "limit": query.Limit})
}

// Recommended handles GET /api/users/recommended
func (h *UserHandler) Recommended(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	limit := clampedInt(c.Query("limit"), recommendedDefaultLimit, 1, recommendedMaxLimit)
	results, err := h.discovery.RecommendedUsers(c.Request.Context(), user.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

func clampedInt(raw string, fallback, min, max int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

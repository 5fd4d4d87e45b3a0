package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
)

// StoryHandler serves the public dashboard stories and frontend config.
type StoryHandler struct {
	stories        services.StoryServiceInterface
	googleClientID string
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(stories services.StoryServiceInterface, googleClientID string) *StoryHandler {
	return &StoryHandler{stories: stories, googleClientID: googleClientID}
}

// List handles GET /api/stories
func (h *StoryHandler) List(c *gin.Context) {
	set, err := h.stories.ListStories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": set.Items, "updated_at": set.UpdatedAt})
}

// Config handles GET /api/config
func (h *StoryHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, models.PublicConfig{GoogleClientID: h.googleClientID})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
)

// IdeaHandler handles capstone idea generation.
type IdeaHandler struct {
	service services.IdeaServiceInterface
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(service services.IdeaServiceInterface) *IdeaHandler {
	return &IdeaHandler{service: service}
}

// Generate handles POST /api/ideas/capstone
func (h *IdeaHandler) Generate(c *gin.Context) {
	var req models.IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	idea, err := h.service.GenerateCapstoneIdea(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IdeaResponse{Idea: idea})
}

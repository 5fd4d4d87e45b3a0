package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/services"
)

// MentorHandler serves the public approved-mentor directory.
type MentorHandler struct {
	service services.MentorServiceInterface
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(service services.MentorServiceInterface) *MentorHandler {
	return &MentorHandler{service: service}
}

// List handles GET /api/mentors
func (h *MentorHandler) List(c *gin.Context) {
	mentors, err := h.service.ListMentors(c.Request.Context(), c.Query("domain"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentors": mentors})
}

// Get handles GET /api/mentors/:mentor_id
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.service.GetMentor(c.Request.Context(), c.Param("mentor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mentor)
}

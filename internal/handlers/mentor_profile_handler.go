package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
)

// MentorProfileHandler handles a mentor's own profile and email templates.
type MentorProfileHandler struct {
	profiles  services.MentorProfileServiceInterface
	templates services.MentorEmailTemplateServiceInterface
}

// NewMentorProfileHandler creates a new MentorProfileHandler.
func NewMentorProfileHandler(
	profiles services.MentorProfileServiceInterface,
	templates services.MentorEmailTemplateServiceInterface,
) *MentorProfileHandler {
	return &MentorProfileHandler{profiles: profiles, templates: templates}
}

func (h *MentorProfileHandler) currentMentor(c *gin.Context) (*models.User, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return nil, false
	}
	if user.Role != models.RoleMentor {
		respondError(c, apperror.Forbidden("forbidden", "Mentor access required"))
		return nil, false
	}
	return user, true
}

// GetMine handles GET /api/mentors/me
func (h *MentorProfileHandler) GetMine(c *gin.Context) {
	user, ok := h.currentMentor(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetMyProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpsertMine handles POST /api/mentors/me
func (h *MentorProfileHandler) UpsertMine(c *gin.Context) {
	user, ok := h.currentMentor(c)
	if !ok {
		return
	}

	var req models.MentorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profiles.UpsertMyProfile(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListTemplates handles GET /api/mentors/email-templates
func (h *MentorProfileHandler) ListTemplates(c *gin.Context) {
	if _, ok := h.currentMentor(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": h.templates.ListTemplates()})
}

// GetTemplate handles GET /api/mentors/email-templates/:template_id
func (h *MentorProfileHandler) GetTemplate(c *gin.Context) {
	user, ok := h.currentMentor(c)
	if !ok {
		return
	}

	template, err := h.templates.GetTemplate(c.Request.Context(), user.ID, c.Param("template_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles PUT /api/mentors/email-templates/:template_id
func (h *MentorProfileHandler) UpdateTemplate(c *gin.Context) {
	user, ok := h.currentMentor(c)
	if !ok {
		return
	}

	var req models.EmailTemplateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.templates.UpdateTemplate(c.Request.Context(), user.ID, c.Param("template_id"), req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PreviewTemplate handles POST /api/mentors/email-templates/:template_id/preview
func (h *MentorProfileHandler) PreviewTemplate(c *gin.Context) {
	user, ok := h.currentMentor(c)
	if !ok {
		return
	}

	var req models.EmailTemplatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	templateID := c.Param("template_id")
	html, err := h.templates.RenderPreview(c.Request.Context(), user.ID, templateID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EmailTemplatePreview{ID: templateID, HTML: html})
}

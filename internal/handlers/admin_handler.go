package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
)

// AdminHandler handles the admin moderation surface: users, mentor
// approvals, global email templates, and dashboard stories.
type AdminHandler struct {
	users     services.AdminUserServiceInterface
	mentors   services.MentorProfileServiceInterface
	templates services.GlobalEmailTemplateServiceInterface
	stories   services.StoryServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	users services.AdminUserServiceInterface,
	mentors services.MentorProfileServiceInterface,
	templates services.GlobalEmailTemplateServiceInterface,
	stories services.StoryServiceInterface,
) *AdminHandler {
	return &AdminHandler{
		users:     users,
		mentors:   mentors,
		templates: templates,
		stories:   stories,
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser handles POST /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req models.AdminUserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), req.Action); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PendingMentors handles GET /api/admin/mentors/pending
func (h *AdminHandler) PendingMentors(c *gin.Context) {
	pending, err := h.mentors.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mentors": pending})
}

// ApproveMentor handles POST /api/admin/mentors/:id/approve
func (h *AdminHandler) ApproveMentor(c *gin.Context) {
	if err := h.mentors.Approve(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectMentor handles POST /api/admin/mentors/:id/reject
func (h *AdminHandler) RejectMentor(c *gin.Context) {
	if err := h.mentors.Reject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListTemplates handles GET /api/admin/email-templates
func (h *AdminHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.templates.ListTemplates()})
}

// GetTemplate handles GET /api/admin/email-templates/:template_id
func (h *AdminHandler) GetTemplate(c *gin.Context) {
	template, err := h.templates.GetTemplate(c.Request.Context(), c.Param("template_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles PUT /api/admin/email-templates/:template_id
func (h *AdminHandler) UpdateTemplate(c *gin.Context) {
	var req models.EmailTemplateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.templates.UpdateTemplate(c.Request.Context(), c.Param("template_id"), req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PreviewTemplate handles POST /api/admin/email-templates/:template_id/preview
func (h *AdminHandler) PreviewTemplate(c *gin.Context) {
	var req models.EmailTemplatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	templateID := c.Param("template_id")
	html, err := h.templates.RenderPreview(c.Request.Context(), templateID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EmailTemplatePreview{ID: templateID, HTML: html})
}

// UpdateStories handles POST /api/admin/stories
func (h *AdminHandler) UpdateStories(c *gin.Context) {
	var req models.StoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	set, err := h.stories.UpdateStories(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

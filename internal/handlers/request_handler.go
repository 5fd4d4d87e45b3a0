package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
)

// RequestHandler handles the connection request lifecycle.
type RequestHandler struct {
	service services.RequestServiceInterface
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service services.RequestServiceInterface) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	var req models.RequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	summary, err := h.service.CreateRequest(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// Incoming handles GET /api/requests/incoming
func (h *RequestHandler) Incoming(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	items, err := h.service.ListIncoming(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

// Outgoing handles GET /api/requests/outgoing
func (h *RequestHandler) Outgoing(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	items, err := h.service.ListOutgoing(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

// Accept handles POST /api/requests/:id/accept
func (h *RequestHandler) Accept(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	summary, err := h.service.AcceptRequest(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Reject handles POST /api/requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperror.Unauthorized("auth_required", "Authentication required"))
		return
	}

	summary, err := h.service.RejectRequest(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// ContentHandler serves the site content: announcements, projects, and
// media metadata. Reads are public; writes arrive through the admin
// guard.
type ContentHandler struct {
	content *appservice.ContentAppService
	log     logger.Logger
}

// NewContentHandler creates the handler.
func NewContentHandler(content *appservice.ContentAppService, log logger.Logger) *ContentHandler {
	return &ContentHandler{content: content, log: log}
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithMessage("invalid id")
	}
	return id, nil
}

// ---- Announcements ----

// ListAnnouncements returns announcements. The public route shows only
// published entries; admins see everything via ?all=true.
// GET /api/v1/announcements
func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	publishedOnly := c.Query("all") != "true"
	items, err := h.content.ListAnnouncements(c.Request.Context(), publishedOnly)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, items)
}

// GetAnnouncement returns one announcement.
// GET /api/v1/announcements/:id
func (h *ContentHandler) GetAnnouncement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	item, err := h.content.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, item)
}

// CreateAnnouncement stores a new announcement.
// POST /api/v1/admin/announcements
func (h *ContentHandler) CreateAnnouncement(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}
	item, err := h.content.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, item)
}

// UpdateAnnouncement replaces an announcement's fields.
// PUT /api/v1/admin/announcements/:id
func (h *ContentHandler) UpdateAnnouncement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}
	item, err := h.content.UpdateAnnouncement(c.Request.Context(), id, req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, item)
}

// DeleteAnnouncement removes an announcement.
// DELETE /api/v1/admin/announcements/:id
func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	if err := h.content.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		dto.SendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Projects ----

// ListProjects returns the portfolio.
// GET /api/v1/projects
func (h *ContentHandler) ListProjects(c *gin.Context) {
	items, err := h.content.ListProjects(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, items)
}

// GetProject returns one project.
// GET /api/v1/projects/:id
func (h *ContentHandler) GetProject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	item, err := h.content.GetProject(c.Request.Context(), id)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, item)
}

// CreateProject stores a new project.
// POST /api/v1/admin/projects
func (h *ContentHandler) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}
	item, err := h.content.CreateProject(c.Request.Context(), req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, item)
}

// UpdateProject replaces a project's fields.
// PUT /api/v1/admin/projects/:id
func (h *ContentHandler) UpdateProject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}
	item, err := h.content.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, item)
}

// DeleteProject removes a project.
// DELETE /api/v1/admin/projects/:id
func (h *ContentHandler) DeleteProject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	if err := h.content.DeleteProject(c.Request.Context(), id); err != nil {
		dto.SendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Media ----

// ListMedia returns media records, optionally filtered by project.
// GET /api/v1/media
func (h *ContentHandler) ListMedia(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			dto.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid project_id"))
			return
		}
		projectID = &id
	}

	items, err := h.content.ListMedia(c.Request.Context(), projectID)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, items)
}

// CreateMedia registers a media record.
// POST /api/v1/admin/media
func (h *ContentHandler) CreateMedia(c *gin.Context) {
	var req dto.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}
	item, err := h.content.CreateMedia(c.Request.Context(), req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, item)
}

// DeleteMedia removes a media record.
// DELETE /api/v1/admin/media/:id
func (h *ContentHandler) DeleteMedia(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	if err := h.content.DeleteMedia(c.Request.Context(), id); err != nil {
		dto.SendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

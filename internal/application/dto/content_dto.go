package dto

import (
	"time"

	"github.com/google/uuid"
)

// AnnouncementRequest creates or replaces an announcement.
type AnnouncementRequest struct {
	Title       string     `json:"title" binding:"required"`
	Body        string     `json:"body"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

// ProjectRequest creates or replaces a project entry.
type ProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// MediaRequest registers a media asset hosted on the external service.
type MediaRequest struct {
	Title        string     `json:"title"`
	Kind         string     `json:"kind" binding:"required,oneof=image video"`
	URL          string     `json:"url" binding:"required,url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	ProjectID    *uuid.UUID `json:"project_id"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a dated notice shown on the public site.
type Announcement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	Published   bool       `gorm:"default:false" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Project is a construction project listed in the portfolio.
type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"size:255" json:"location"`
	Status      string     `gorm:"size:64" json:"status"` // planned, active, completed
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MediaItem references an asset hosted on the external media service.
// Only metadata is stored locally.
type MediaItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"size:255" json:"title"`
	Kind         string     `gorm:"size:32" json:"kind"` // image or video
	URL          string     `gorm:"size:1024;not null" json:"url"`
	ThumbnailURL string     `gorm:"size:1024" json:"thumbnail_url"`
	ProjectID    *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

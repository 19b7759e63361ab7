package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/internal/infrastructure/persistence/gormdb"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// ContentAppService maps content DTOs onto the repository. Reads are
// public; writes sit behind the admin guard, so no authorization happens
// here.
type ContentAppService struct {
	repo *gormdb.ContentRepository
	log  logger.Logger
}

// NewContentAppService creates the service.
func NewContentAppService(repo *gormdb.ContentRepository, log logger.Logger) *ContentAppService {
	return &ContentAppService{repo: repo, log: log}
}

// ListAnnouncements returns announcements, optionally published only.
func (s *ContentAppService) ListAnnouncements(ctx context.Context, publishedOnly bool) ([]models.Announcement, error) {
	return s.repo.ListAnnouncements(ctx, publishedOnly)
}

// GetAnnouncement returns one announcement by id.
func (s *ContentAppService) GetAnnouncement(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	return s.repo.GetAnnouncement(ctx, id)
}

// CreateAnnouncement stores a new announcement.
func (s *ContentAppService) CreateAnnouncement(ctx context.Context, req dto.AnnouncementRequest) (*models.Announcement, error) {
	a := &models.Announcement{
		Title:       req.Title,
		Body:        req.Body,
		Published:   req.Published,
		PublishedAt: req.PublishedAt,
	}
	if err := s.repo.SaveAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAnnouncement replaces the mutable fields of an announcement.
func (s *ContentAppService) UpdateAnnouncement(ctx context.Context, id uuid.UUID, req dto.AnnouncementRequest) (*models.Announcement, error) {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Title = req.Title
	a.Body = req.Body
	a.Published = req.Published
	a.PublishedAt = req.PublishedAt
	if err := s.repo.SaveAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAnnouncement removes an announcement.
func (s *ContentAppService) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}

// ListProjects returns all portfolio projects.
func (s *ContentAppService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.repo.ListProjects(ctx)
}

// GetProject returns one project by id.
func (s *ContentAppService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.GetProject(ctx, id)
}

// CreateProject stores a new project.
func (s *ContentAppService) CreateProject(ctx context.Context, req dto.ProjectRequest) (*models.Project, error) {
	p := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
	}
	if err := s.repo.SaveProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProject replaces the mutable fields of a project.
func (s *ContentAppService) UpdateProject(ctx context.Context, id uuid.UUID, req dto.ProjectRequest) (*models.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Location = req.Location
	p.Status = req.Status
	p.StartedAt = req.StartedAt
	p.CompletedAt = req.CompletedAt
	if err := s.repo.SaveProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes a project.
func (s *ContentAppService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProject(ctx, id)
}

// ListMedia returns media records, optionally scoped to a project.
func (s *ContentAppService) ListMedia(ctx context.Context, projectID *uuid.UUID) ([]models.MediaItem, error) {
	return s.repo.ListMedia(ctx, projectID)
}

// CreateMedia registers a media record.
func (s *ContentAppService) CreateMedia(ctx context.Context, req dto.MediaRequest) (*models.MediaItem, error) {
	m := &models.MediaItem{
		Title:        req.Title,
		Kind:         req.Kind,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		ProjectID:    req.ProjectID,
	}
	if err := s.repo.SaveMedia(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedia removes a media record.
func (s *ContentAppService) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMedia(ctx, id)
}

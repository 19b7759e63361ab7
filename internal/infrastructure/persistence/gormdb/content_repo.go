package gormdb

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	apperrors "github.com/ferrocrete/sitegate/pkg/errors"
)

// ContentRepository is the CRUD store for announcements, projects, and
// media records. Handlers validate; this layer only runs queries.
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates the repository.
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInternal.WithError(err)
}

// ---- Announcements ----

func (r *ContentRepository) ListAnnouncements(ctx context.Context, publishedOnly bool) ([]models.Announcement, error) {
	var out []models.Announcement
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ContentRepository) GetAnnouncement(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ContentRepository) SaveAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *ContentRepository) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ---- Projects ----

func (r *ContentRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ContentRepository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ContentRepository) SaveProject(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *ContentRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ---- Media ----

func (r *ContentRepository) ListMedia(ctx context.Context, projectID *uuid.UUID) ([]models.MediaItem, error) {
	var out []models.MediaItem
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ContentRepository) SaveMedia(ctx context.Context, m *models.MediaItem) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *ContentRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.MediaItem{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package gormdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	apperrors "github.com/ferrocrete/sitegate/pkg/errors"
)

func newTestRepo(t *testing.T) *ContentRepository {
	t.Helper()
	db, err := NewConnection(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	return NewContentRepository(db)
}

func TestAnnouncementLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := &models.Announcement{Title: "Road closure", Body: "Main street", Published: true}
	require.NoError(t, repo.SaveAnnouncement(ctx, a))
	require.NotEqual(t, uuid.Nil, a.ID)

	got, err := repo.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road closure", got.Title)

	got.Title = "Road reopened"
	require.NoError(t, repo.SaveAnnouncement(ctx, got))
	got, err = repo.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road reopened", got.Title)

	require.NoError(t, repo.DeleteAnnouncement(ctx, a.ID))
	_, err = repo.GetAnnouncement(ctx, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListAnnouncementsPublishedFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveAnnouncement(ctx, &models.Announcement{Title: "draft"}))
	require.NoError(t, repo.SaveAnnouncement(ctx, &models.Announcement{Title: "live", Published: true}))

	published, err := repo.ListAnnouncements(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].Title)

	all, err := repo.ListAnnouncements(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteMissingRowsReturnNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.True(t, apperrors.Is(repo.DeleteAnnouncement(ctx, uuid.New()), apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(repo.DeleteProject(ctx, uuid.New()), apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(repo.DeleteMedia(ctx, uuid.New()), apperrors.ErrNotFound))
}

func TestMediaProjectScope(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := &models.Project{Name: "Harbor bridge", Status: "active"}
	require.NoError(t, repo.SaveProject(ctx, p))

	require.NoError(t, repo.SaveMedia(ctx, &models.MediaItem{Kind: "image", URL: "https://cdn.example/a.jpg", ProjectID: &p.ID}))
	require.NoError(t, repo.SaveMedia(ctx, &models.MediaItem{Kind: "image", URL: "https://cdn.example/b.jpg"}))

	scoped, err := repo.ListMedia(ctx, &p.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "https://cdn.example/a.jpg", scoped[0].URL)

	all, err := repo.ListMedia(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

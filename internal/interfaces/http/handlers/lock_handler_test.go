package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/internal/infrastructure/audit"
	"github.com/ferrocrete/sitegate/internal/infrastructure/lockstore"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

type lockFixture struct {
	engine *gin.Engine
	store  *lockstore.FileStore
}

func newLockFixture(t *testing.T) *lockFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNoopLogger()
	store, err := lockstore.NewFileStore(filepath.Join(t.TempDir(), "lock-state.json"), log)
	require.NoError(t, err)

	svc := appservice.NewLockAppService(store, audit.NewLogRecorder(log), log)
	handler := NewLockHandler(svc, monitoring.NewMetrics(prometheus.NewRegistry()), log)

	engine := gin.New()
	engine.GET("/api/v1/lock/status", handler.Status)
	engine.GET("/api/v1/admin/lock", handler.Show)
	engine.PUT("/api/v1/admin/lock", handler.Update)
	return &lockFixture{engine: engine, store: store}
}

func (f *lockFixture) seed(t *testing.T, mutate func(*models.LockState)) {
	t.Helper()
	_, err := f.store.Update(context.Background(), mutate)
	require.NoError(t, err)
}

func (f *lockFixture) status(t *testing.T, addr string) dto.LockStatusResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lock/status", nil)
	req.RemoteAddr = addr + ":33000"
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LockStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (f *lockFixture) update(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/lock", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestLockStatusOpenSite(t *testing.T) {
	f := newLockFixture(t)
	resp := f.status(t, "203.0.113.5")

	assert.Equal(t, string(constants.ScreenNone), resp.ScreenType)
	assert.False(t, resp.IsLocked)
	assert.False(t, resp.IsBlocked)
	assert.False(t, resp.IsMaintenance)
}

func TestLockStatusMaintenance(t *testing.T) {
	f := newLockFixture(t)
	f.seed(t, func(s *models.LockState) {
		s.MaintenanceMode = true
		s.AllowedIPs = []string{"203.0.113.5"}
	})

	// Maintenance applies even to allow-listed callers.
	resp := f.status(t, "203.0.113.5")
	assert.Equal(t, string(constants.ScreenMaintenance), resp.ScreenType)
	assert.True(t, resp.IsMaintenance)
	assert.True(t, resp.IsAllowed)
}

func TestLockStatusLockedWithAllowList(t *testing.T) {
	f := newLockFixture(t)
	f.seed(t, func(s *models.LockState) {
		s.Locked = true
		s.AllowedIPs = []string{"203.0.113.5"}
	})

	allowed := f.status(t, "203.0.113.5")
	assert.Equal(t, string(constants.ScreenNone), allowed.ScreenType)
	assert.True(t, allowed.IsAllowed)

	outsider := f.status(t, "198.51.100.7")
	assert.Equal(t, string(constants.ScreenLocked), outsider.ScreenType)
	assert.True(t, outsider.IsLocked)
	assert.False(t, outsider.IsAllowed)
}

func TestLockStatusBlockedPrefix(t *testing.T) {
	f := newLockFixture(t)
	f.seed(t, func(s *models.LockState) {
		s.BlockedIPs = []string{"198.51.100."}
	})

	resp := f.status(t, "198.51.100.42")
	assert.Equal(t, string(constants.ScreenIPBlocked), resp.ScreenType)
	assert.True(t, resp.IsBlocked)
}

func TestLockUpdatePartial(t *testing.T) {
	f := newLockFixture(t)
	f.seed(t, func(s *models.LockState) {
		s.Locked = true
		s.AllowedIPs = []string{"203.0.113.5"}
	})

	// Only maintenanceMode changes; everything else keeps its value.
	w := f.update(t, `{"maintenanceMode":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LockStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.MaintenanceMode)
	assert.True(t, resp.Locked)
	assert.Equal(t, []string{"203.0.113.5"}, resp.AllowedIPs)
}

func TestLockUpdateListFormats(t *testing.T) {
	f := newLockFixture(t)

	t.Run("json array", func(t *testing.T) {
		w := f.update(t, `{"allowedIPs":["203.0.113.5","198.51.100.7"]}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.LockStateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"203.0.113.5", "198.51.100.7"}, resp.AllowedIPs)
	})

	t.Run("comma-separated string", func(t *testing.T) {
		w := f.update(t, `{"blockedIPs":"203.0.113.9, 198.51.100."}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.LockStateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"203.0.113.9", "198.51.100."}, resp.BlockedIPs)
	})
}

func TestLockUpdateRejectsNonBooleanFlag(t *testing.T) {
	f := newLockFixture(t)

	w := f.update(t, `{"locked":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeInvalidRequest, body.Code)

	// The stored state is untouched.
	assert.False(t, f.store.Get().Locked)
}

func TestLockShow(t *testing.T) {
	f := newLockFixture(t)
	f.seed(t, func(s *models.LockState) { s.Locked = true })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/lock", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.LockStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Locked)
}

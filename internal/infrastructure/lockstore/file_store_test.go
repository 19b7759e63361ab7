package lockstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lock-state.json")
	store, err := NewFileStore(path, logger.NewNoopLogger())
	require.NoError(t, err)
	return store, path
}

func TestNewFileStoreCreatesDefaults(t *testing.T) {
	store, path := newStore(t)

	state := store.Get()
	assert.True(t, state.Enabled)
	assert.False(t, state.Locked)
	assert.False(t, state.MaintenanceMode)
	assert.Empty(t, state.AllowedIPs)
	assert.Empty(t, state.BlockedIPs)

	// Defaults are persisted immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk models.LockState
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.True(t, onDisk.Enabled)
}

func TestNewFileStoreLoadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock-state.json")
	seed := models.LockState{Enabled: true, Locked: true, BlockedIPs: []string{"203.0.113.5"}}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store, err := NewFileStore(path, logger.NewNoopLogger())
	require.NoError(t, err)

	state := store.Get()
	assert.True(t, state.Locked)
	assert.Equal(t, []string{"203.0.113.5"}, state.BlockedIPs)
}

func TestNewFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock-state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, logger.NewNoopLogger())
	assert.Error(t, err)
}

func TestUpdatePersistsAndRefreshesCache(t *testing.T) {
	store, path := newStore(t)

	updated, err := store.Update(context.Background(), func(s *models.LockState) {
		s.MaintenanceMode = true
		s.AllowedIPs = []string{"203.0.113.5"}
	})
	require.NoError(t, err)
	assert.True(t, updated.MaintenanceMode)
	assert.False(t, updated.LastUpdated.IsZero())

	assert.True(t, store.Get().MaintenanceMode)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk models.LockState
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.True(t, onDisk.MaintenanceMode)
	assert.Equal(t, []string{"203.0.113.5"}, onDisk.AllowedIPs)
}

func TestGetReturnsCopy(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Update(context.Background(), func(s *models.LockState) {
		s.AllowedIPs = []string{"203.0.113.5"}
	})
	require.NoError(t, err)

	state := store.Get()
	state.AllowedIPs[0] = "mutated"

	assert.Equal(t, []string{"203.0.113.5"}, store.Get().AllowedIPs)
}

func TestWatchReloadsOnExternalWrite(t *testing.T) {
	store, path := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch registers the filesystem watcher before returning, so the
	// rename below cannot slip past it.
	require.NoError(t, store.Watch(ctx))

	next := models.LockState{Enabled: true, Locked: true}
	data, err := json.Marshal(next)
	require.NoError(t, err)

	// Replace via rename, the same way an external writer would.
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, data, 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool {
		return store.Get().Locked
	}, 2*time.Second, 10*time.Millisecond, "watcher should pick up the external write")
}

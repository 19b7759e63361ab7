// Package lockstore persists the site lock/maintenance configuration as
// a JSON file with atomic writes and a process-local cache. The file is
// the single source of truth; the cache is refreshed on every write and,
// when watching is enabled, on out-of-band edits to the file.
package lockstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// FileStore is the JSON-file implementation of service.LockStore.
type FileStore struct {
	path string
	log  logger.Logger

	mu    sync.RWMutex
	state models.LockState
}

// NewFileStore loads the state file, creating it with defaults when it
// does not exist yet.
func NewFileStore(path string, log logger.Logger) (*FileStore, error) {
	s := &FileStore{path: path, log: log}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("parse lock state %s: %w", path, err)
		}
	case os.IsNotExist(err):
		s.state = models.LockState{
			Enabled:     true,
			AllowedIPs:  []string{},
			BlockedIPs:  []string{},
			LastUpdated: time.Now().UTC(),
		}
		if err := s.persist(s.state); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read lock state %s: %w", path, err)
	}

	return s, nil
}

// Get returns a copy of the cached state.
func (s *FileStore) Get() models.LockState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies mutate under the store lock, persists atomically, and
// refreshes the cache. Writes are serialized; readers see either the old
// or the new complete state.
func (s *FileStore) Update(ctx context.Context, mutate func(*models.LockState)) (models.LockState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	mutate(&next)
	next.LastUpdated = time.Now().UTC()

	if err := s.persist(next); err != nil {
		return models.LockState{}, err
	}

	s.state = next
	s.log.Info(ctx, "lock state updated", logger.Fields{
		"locked":      next.Locked,
		"maintenance": next.MaintenanceMode,
		"enabled":     next.Enabled,
	})
	return next.Clone(), nil
}

// persist writes the state to a temp file in the same directory and
// renames it over the target, which is atomic on POSIX filesystems.
// Must be called with the write lock held.
func (s *FileStore) persist(state models.LockState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".lock-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Watch reloads the cache when the state file changes on disk, covering
// operator edits made outside the API. The watcher is registered before
// Watch returns, so a change made after a successful return is never
// missed; the event loop then runs in the background until ctx is done.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, not the file: the rename-based write replaces
	// the inode, which would silently drop a file-level watch.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.reload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Error(ctx, "lock state watcher error", err)
		}
	}
}

func (s *FileStore) reload(ctx context.Context) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Error(ctx, "failed to reload lock state", err)
		return
	}

	var state models.LockState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Error(ctx, "failed to parse reloaded lock state", err)
		return
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.log.Info(ctx, "lock state reloaded from disk", nil)
}

var _ service.LockStore = (*FileStore)(nil)

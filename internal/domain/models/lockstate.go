package models

import "time"

// LockState is the persisted site lock/maintenance configuration. It is
// the single source of truth on disk; the process holds a cached copy
// that every write updates atomically with the file.
type LockState struct {
	Enabled         bool      `json:"enabled"`
	Locked          bool      `json:"locked"`
	MaintenanceMode bool      `json:"maintenanceMode"`
	AllowedIPs      []string  `json:"allowedIPs"`
	BlockedIPs      []string  `json:"blockedIPs"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Clone returns a deep copy so cached state can be handed out without
// letting callers mutate the shared copy.
func (s LockState) Clone() LockState {
	out := s
	out.AllowedIPs = append([]string(nil), s.AllowedIPs...)
	out.BlockedIPs = append([]string(nil), s.BlockedIPs...)
	return out
}

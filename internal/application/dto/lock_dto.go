package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ferrocrete/sitegate/pkg/netutil"
)

// LockStatusResponse is the public view of the lock decision for the
// caller's address.
type LockStatusResponse struct {
	IsAllowed     bool      `json:"isAllowed"`
	IsBlocked     bool      `json:"isBlocked"`
	IsLocked      bool      `json:"isLocked"`
	IsMaintenance bool      `json:"isMaintenance"`
	ScreenType    string    `json:"screenType"`
	Timestamp     time.Time `json:"timestamp"`
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string.
type StringList []string

// UnmarshalJSON implements the dual-format decoding.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*l = asList
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*l = netutil.SplitList(asString)
		return nil
	}

	return fmt.Errorf("expected a string list or comma-separated string")
}

// LockUpdateRequest is a partial update to the lock configuration.
// Absent fields are left unchanged; boolean fields must be JSON booleans
// (anything else fails binding with a 400).
type LockUpdateRequest struct {
	Enabled         *bool       `json:"enabled,omitempty"`
	Locked          *bool       `json:"locked,omitempty"`
	MaintenanceMode *bool       `json:"maintenanceMode,omitempty"`
	AllowedIPs      *StringList `json:"allowedIPs,omitempty"`
	BlockedIPs      *StringList `json:"blockedIPs,omitempty"`
}

// LockStateResponse echoes the stored configuration after an update.
type LockStateResponse struct {
	Success         bool      `json:"success"`
	Enabled         bool      `json:"enabled"`
	Locked          bool      `json:"locked"`
	MaintenanceMode bool      `json:"maintenanceMode"`
	AllowedIPs      []string  `json:"allowedIPs"`
	BlockedIPs      []string  `json:"blockedIPs"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

package models

import (
	"time"

	"github.com/ferrocrete/sitegate/pkg/constants"
)

// Principal is the verified identity derived from a token, scoped to one
// request. It is never persisted.
type Principal struct {
	ID            string
	Issuer        string
	SecurityLevel string
	Role          constants.Role
	Permissions   []string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// HasPermission reports whether the principal carries the permission.
func (p *Principal) HasPermission(perm string) bool {
	for _, have := range p.Permissions {
		if have == perm {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every listed permission is present.
// The check is a logical AND; an empty list is trivially satisfied.
func (p *Principal) HasAllPermissions(perms ...string) bool {
	for _, perm := range perms {
		if !p.HasPermission(perm) {
			return false
		}
	}
	return true
}

// HasAnyRole reports whether the principal's role is one of the given
// roles (logical OR).
func (p *Principal) HasAnyRole(roles ...constants.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

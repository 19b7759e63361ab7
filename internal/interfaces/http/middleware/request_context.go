// Package middleware implements the request pipeline: ambient concerns
// (request IDs, logging, recovery, metrics) and the ordered admin guard
// stages (rate limit, IP allow-list, token verification, permission gate).
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/netutil"
)

// RequestID assigns a UUID to every request, honoring one supplied by a
// trusted upstream proxy, and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(string(constants.ContextKeyRequestID), id)
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(ctx)

		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}

// CallerAddr returns the canonical client address for the request.
func CallerAddr(c *gin.Context) string {
	return netutil.CanonicalAddr(c.ClientIP())
}

// SetPrincipal attaches the verified principal to the request.
func SetPrincipal(c *gin.Context, p *models.Principal) {
	c.Set(string(constants.ContextKeyPrincipal), p)
}

// PrincipalFrom retrieves the principal attached by the verification
// stage, if any.
func PrincipalFrom(c *gin.Context) (*models.Principal, bool) {
	v, ok := c.Get(string(constants.ContextKeyPrincipal))
	if !ok {
		return nil, false
	}
	p, ok := v.(*models.Principal)
	return p, ok && p != nil
}

// routeLabel returns a low-cardinality route label for metrics.
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

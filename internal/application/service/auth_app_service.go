// Package service contains the application services orchestrating the
// domain and infrastructure layers for the HTTP handlers.
package service

import (
	"context"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/crypto"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// AuthAppService implements the credential-based bootstrap login and the
// token verify/refresh operations on top of the token service.
type AuthAppService struct {
	tokens        domainservice.TokenService
	audit         domainservice.AuditRecorder
	adminPassword string
	log           logger.Logger
}

// NewAuthAppService creates the service. adminPassword is the single
// shared administrative credential; there is no user directory.
func NewAuthAppService(
	tokens domainservice.TokenService,
	audit domainservice.AuditRecorder,
	adminPassword string,
	log logger.Logger,
) *AuthAppService {
	return &AuthAppService{
		tokens:        tokens,
		audit:         audit,
		adminPassword: adminPassword,
		log:           log,
	}
}

// Login validates the shared credential and mints an admin token.
// Validation failures and credential mismatches each produce a security
// event before the error is returned.
func (s *AuthAppService) Login(ctx context.Context, password, addr, route string) (*dto.TokenResponse, error) {
	if password == "" {
		return nil, errors.ErrMissingPassword
	}
	if len(password) < constants.MinCredentialLength {
		return nil, errors.ErrPasswordShort
	}
	if s.adminPassword == "" {
		s.audit.Record(ctx, domainservice.SecurityEvent{
			Type: constants.EventIntegrityFailure, Addr: addr, Route: route,
			Details: map[string]interface{}{"reason": "admin credential not configured"},
		})
		return nil, errors.ErrConfiguration.WithMessage("administrative credential is not configured")
	}

	if !crypto.CompareCredential(password, s.adminPassword) {
		s.audit.Record(ctx, domainservice.SecurityEvent{
			Type: constants.EventLoginFailed, Addr: addr, Route: route,
		})
		return nil, errors.ErrInvalidPassword
	}

	return s.issue(ctx, "admin", constants.AdminPermissions, constants.RoleAdmin, addr, route, constants.EventTokenIssued)
}

// Verify checks a bearer token and returns the principal. Rejections are
// recorded as security events here so every caller gets the same
// forensic trail.
func (s *AuthAppService) Verify(ctx context.Context, token, addr, route string) (*models.Principal, error) {
	principal, err := s.tokens.Verify(ctx, token)
	if err != nil {
		appErr := errors.Classify(err)
		s.audit.Record(ctx, domainservice.SecurityEvent{
			Type: constants.EventTokenRejected, Addr: addr, Route: route,
			Details: map[string]interface{}{"code": appErr.Code},
		})
		return nil, err
	}
	return principal, nil
}

// Refresh issues a new token for an already-verified principal,
// preserving its subject, permissions, and role with a fresh expiry.
func (s *AuthAppService) Refresh(ctx context.Context, principal *models.Principal, addr, route string) (*dto.TokenResponse, error) {
	if principal == nil {
		return nil, errors.ErrUnauthenticated
	}
	return s.issue(ctx, principal.ID, principal.Permissions, principal.Role, addr, route, constants.EventTokenRefreshed)
}

// IssueServiceToken mints a scoped token for a non-interactive subject,
// such as the health-monitoring principal.
func (s *AuthAppService) IssueServiceToken(ctx context.Context, subject string, permissions []string) (*dto.TokenResponse, error) {
	return s.issue(ctx, subject, permissions, constants.RoleService, "", "", constants.EventTokenIssued)
}

func (s *AuthAppService) issue(
	ctx context.Context,
	subject string,
	permissions []string,
	role constants.Role,
	addr, route string,
	event constants.SecurityEventType,
) (*dto.TokenResponse, error) {
	token, claims, err := s.tokens.Issue(ctx, subject, permissions, role)
	if err != nil {
		appErr := errors.Classify(err)
		s.audit.Record(ctx, domainservice.SecurityEvent{
			Type: constants.EventIntegrityFailure, Actor: subject, Addr: addr, Route: route,
			Details: map[string]interface{}{"code": appErr.Code},
		})
		if errors.Is(err, errors.ErrConfiguration) {
			return nil, err
		}
		return nil, errors.ErrTokenGeneration.WithError(err)
	}

	s.audit.Record(ctx, domainservice.SecurityEvent{
		Type: event, Actor: subject, Addr: addr, Route: route,
		Details: map[string]interface{}{
			"permissions": claims.Permissions,
			"expires_at":  claims.ExpiresAt.Time,
		},
	})

	return &dto.TokenResponse{
		Success:       true,
		Token:         token,
		ExpiresIn:     constants.TokenLifetimeHuman,
		Permissions:   claims.Permissions,
		SecurityLevel: claims.SecurityLevel,
	}, nil
}

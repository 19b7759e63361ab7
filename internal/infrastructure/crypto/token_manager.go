package crypto

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// TokenManager signs and verifies access tokens with the process-wide
// signing material. The integrity check runs when the manager is built;
// because the material is immutable after load, the verdict is consulted
// before every issue/verify operation and a failed check keeps the
// manager permanently fail-closed.
type TokenManager struct {
	material     SigningMaterial
	integrityErr error
	log          logger.Logger
	now          func() time.Time
}

// NewTokenManager builds a TokenManager and runs the signing-material
// integrity check. The manager is returned even when the check fails so
// startup code can decide how to surface the error; every operation on a
// compromised manager fails with the configuration error.
func NewTokenManager(material SigningMaterial, log logger.Logger) *TokenManager {
	m := &TokenManager{
		material: material,
		log:      log,
		now:      time.Now,
	}
	m.integrityErr = material.Check()
	if m.integrityErr != nil {
		log.Error(context.Background(), "signing material failed integrity check", m.integrityErr)
	}
	return m
}

// WithClock replaces the time source. Tests use this to cross expiry
// boundaries deterministically.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// IntegrityErr exposes the startup integrity verdict.
func (m *TokenManager) IntegrityErr() error {
	return m.integrityErr
}

// Issue mints a signed token for the subject. The claim set is fixed:
// issuer, subject, issued-at, expiry (now + 30m), JTI, security-level
// tag, algorithm tag, iteration count, permissions, and role.
func (m *TokenManager) Issue(ctx context.Context, subject string, permissions []string, role constants.Role) (string, *models.AccessClaims, error) {
	if m.integrityErr != nil {
		return "", nil, m.integrityErr
	}
	if subject == "" {
		return "", nil, errors.ErrInvalidRequest.WithMessage("subject is required")
	}

	now := m.now()
	claims := &models.AccessClaims{
		SecurityLevel: constants.TokenSecurityLevel,
		AlgorithmTag:  constants.TokenAlgorithm,
		Iterations:    m.material.Iterations,
		Permissions:   append([]string(nil), permissions...),
		Role:          string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.TokenIssuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.material.Secret))
	if err != nil {
		m.log.Error(ctx, "failed to sign token", err, logger.Fields{"subject": subject})
		return "", nil, errors.ErrTokenGeneration.WithError(err)
	}

	return signed, claims, nil
}

// Verify validates a token and returns the normalized principal. The
// checks run in a fixed order, each a rejection point: signature and
// claim decode, issuer, expiry, security-level tag, algorithm tag, and
// the iteration floor. Lower-level parse failures never escape; they are
// reclassified as invalid-token errors.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*models.Principal, error) {
	if m.integrityErr != nil {
		return nil, m.integrityErr
	}
	if tokenString == "" {
		return nil, errors.ErrMissingToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{constants.TokenAlgorithm}),
		jwt.WithTimeFunc(m.now),
	)

	claims := &models.AccessClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return []byte(m.material.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken.WithError(err)
	}
	if !token.Valid {
		return nil, errors.ErrInvalidToken
	}

	if claims.Issuer != constants.TokenIssuer {
		return nil, errors.ErrInvalidToken.WithMetadata("issuer", claims.Issuer)
	}
	if claims.IssuedAt == nil {
		return nil, errors.ErrInvalidToken.WithMessage("token is missing issued-at claim")
	}

	// Redundant expiry check: expiry is the sole invalidation mechanism,
	// so it is enforced here as well as by the parser. Valid through exp,
	// rejected strictly after.
	if claims.ExpiresAt == nil || m.now().After(claims.ExpiresAt.Time) {
		return nil, errors.ErrTokenExpired
	}

	if claims.SecurityLevel != constants.TokenSecurityLevel {
		return nil, errors.ErrInvalidSecurityToken.WithMetadata("security_level", claims.SecurityLevel)
	}
	if claims.AlgorithmTag != constants.TokenAlgorithm {
		return nil, errors.ErrInvalidSecurityToken.WithMetadata("alg_tag", claims.AlgorithmTag)
	}
	if claims.Iterations < m.material.Iterations {
		return nil, errors.ErrInvalidSecurityToken.WithMetadata("iterations", claims.Iterations)
	}

	principal := &models.Principal{
		ID:            claims.Subject,
		Issuer:        claims.Issuer,
		SecurityLevel: claims.SecurityLevel,
		Role:          constants.Role(claims.Role),
		Permissions:   append([]string(nil), claims.Permissions...),
		IssuedAt:      claims.IssuedAt.Time,
		ExpiresAt:     claims.ExpiresAt.Time,
	}
	return principal, nil
}

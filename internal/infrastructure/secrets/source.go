// Package secrets resolves the signing material from its configured
// source. The environment source is the default; the Vault source serves
// deployments that keep the secret in a KV v2 engine. Both feed the same
// integrity check, which must pass before the material is trusted.
package secrets

import (
	"context"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/infrastructure/crypto"
	"github.com/ferrocrete/sitegate/pkg/errors"
)

// Source yields the process-wide signing material.
type Source interface {
	SigningMaterial(ctx context.Context) (crypto.SigningMaterial, error)
}

// envSource reads the material straight from the loaded configuration.
type envSource struct {
	cfg *config.SecurityConfig
}

// NewEnvSource returns a Source backed by environment configuration.
func NewEnvSource(cfg *config.SecurityConfig) Source {
	return &envSource{cfg: cfg}
}

func (s *envSource) SigningMaterial(context.Context) (crypto.SigningMaterial, error) {
	m := crypto.SigningMaterial{
		Secret:         s.cfg.SigningSecret,
		Salt:           s.cfg.SigningSalt,
		ExpectedDigest: s.cfg.ExpectedDigest,
		Iterations:     s.cfg.MinIterations,
	}
	if m.Secret == "" || m.Salt == "" || m.ExpectedDigest == "" {
		return crypto.SigningMaterial{}, errors.ErrConfiguration.WithMessage("signing material is not configured")
	}
	return m, nil
}

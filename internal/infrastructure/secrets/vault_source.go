package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/infrastructure/crypto"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// vaultSource reads the signing material from a Vault KV v2 path holding
// the keys "secret", "salt", "expected_digest".
type vaultSource struct {
	client        *vault.Client
	mountPath     string
	keyPath       string
	minIterations int
	log           logger.Logger
}

// NewVaultSource creates a Source backed by HashiCorp Vault.
func NewVaultSource(cfg *config.VaultConfig, minIterations int, log logger.Logger) (Source, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &vaultSource{
		client:        client,
		mountPath:     cfg.MountPath,
		keyPath:       cfg.KeyPath,
		minIterations: minIterations,
		log:           log,
	}, nil
}

func (s *vaultSource) SigningMaterial(ctx context.Context) (crypto.SigningMaterial, error) {
	secret, err := s.client.KVv2(s.mountPath).Get(ctx, s.keyPath)
	if err != nil {
		return crypto.SigningMaterial{}, errors.ErrConfiguration.WithError(err).
			WithMessage("failed to read signing material from vault")
	}
	if secret == nil || secret.Data == nil {
		return crypto.SigningMaterial{}, errors.ErrConfiguration.WithMessage("vault signing material is empty")
	}

	m := crypto.SigningMaterial{
		Secret:         stringField(secret.Data, "secret"),
		Salt:           stringField(secret.Data, "salt"),
		ExpectedDigest: stringField(secret.Data, "expected_digest"),
		Iterations:     s.minIterations,
	}
	if m.Secret == "" || m.Salt == "" || m.ExpectedDigest == "" {
		return crypto.SigningMaterial{}, errors.ErrConfiguration.WithMessage("vault signing material is incomplete")
	}

	s.log.Info(ctx, "signing material loaded from vault", logger.Fields{"path": s.keyPath})
	return m, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// FromConfig selects the configured source.
func FromConfig(cfg *config.Config, log logger.Logger) (Source, error) {
	if cfg.Security.SecretSource == "vault" {
		return NewVaultSource(&cfg.Vault, cfg.Security.MinIterations, log)
	}
	return NewEnvSource(&cfg.Security), nil
}

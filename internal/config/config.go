package config

import (
	"fmt"

	"github.com/ferrocrete/sitegate/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Security  SecurityConfig  `mapstructure:"security"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Lock      LockConfig      `mapstructure:"lock"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // development or production
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	IdleTimeout    int      `mapstructure:"idle_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Address returns the listen address for the HTTP server.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in the strict mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Mode == constants.ModeProduction
}

// SecurityConfig carries the signing material and admin-surface policy.
// In production every field here must be present; absence is a fatal
// configuration error, never a fallback to a permissive default.
type SecurityConfig struct {
	SigningSecret  string   `mapstructure:"signing_secret"`
	SigningSalt    string   `mapstructure:"signing_salt"`
	ExpectedDigest string   `mapstructure:"expected_digest"` // hex of PBKDF2(secret, salt)
	MinIterations  int      `mapstructure:"min_iterations"`
	AdminPassword  string   `mapstructure:"admin_password"`
	AdminAllowList []string `mapstructure:"admin_allow_list"`
	SecretSource   string   `mapstructure:"secret_source"` // env or vault
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type RateLimitConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Backend string `mapstructure:"backend"` // memory or redis
	Window  int    `mapstructure:"window"`  // seconds
	Public  int    `mapstructure:"public"`
	Admin   int    `mapstructure:"admin"`
	Login   int    `mapstructure:"login"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type LockConfig struct {
	StateFile string `mapstructure:"state_file"`
	Watch     bool   `mapstructure:"watch"`
}

type VaultConfig struct {
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
	KeyPath   string `mapstructure:"key_path"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values. Signing material is
// only enforced here for the env secret source; the Vault source is
// validated when the material is fetched at startup.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case constants.ModeDevelopment, constants.ModeProduction:
	default:
		return fmt.Errorf("server.mode must be %q or %q, got %q",
			constants.ModeDevelopment, constants.ModeProduction, c.Server.Mode)
	}

	if c.Server.IsProduction() && c.Security.SecretSource != "vault" {
		if c.Security.SigningSecret == "" {
			return fmt.Errorf("security.signing_secret is required in production")
		}
		if c.Security.SigningSalt == "" {
			return fmt.Errorf("security.signing_salt is required in production")
		}
		if c.Security.ExpectedDigest == "" {
			return fmt.Errorf("security.expected_digest is required in production")
		}
		if c.Security.AdminPassword == "" {
			return fmt.Errorf("security.admin_password is required in production")
		}
	}

	if c.Security.MinIterations <= 0 {
		c.Security.MinIterations = constants.DefaultMinIterations
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.RateLimit.Backend == "redis" && c.RateLimit.RedisAddr == "" {
		return fmt.Errorf("rate_limit.redis_addr is required when backend is redis")
	}

	return nil
}

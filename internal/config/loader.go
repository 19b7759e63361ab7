package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ferrocrete/sitegate/pkg/constants"
)

// LoadConfig loads the configuration from file and environment variables.
// Environment variables use the SITEGATE_ prefix with underscores for
// nesting (SITEGATE_SECURITY_SIGNING_SECRET) and always override the file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/sitegate/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("SITEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", constants.ModeDevelopment)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("security.min_iterations", constants.DefaultMinIterations)
	v.SetDefault("security.secret_source", "env")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "sitegate.db")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.window", int(constants.RateLimitWindow.Seconds()))
	v.SetDefault("rate_limit.public", constants.PublicRateLimit)
	v.SetDefault("rate_limit.admin", constants.AdminRateLimit)
	v.SetDefault("rate_limit.login", constants.LoginRateLimit)

	v.SetDefault("lock.state_file", "site-lock.json")
	v.SetDefault("lock.watch", true)

	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.key_path", "sitegate/signing")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "sitegate.security-events")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "sitegate")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

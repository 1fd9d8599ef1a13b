package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// APIPrefix is the path every resource router is mounted under.
	APIPrefix string `env:"API_PREFIX, default=/api/v1"`
	// AuthScheme is the only scheme accepted in the Authorization header.
	AuthScheme string `env:"AUTH_SCHEME, default=Token"`

	Database DatabaseConfig
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER,            default=sqlite"`
	DSN             string        `env:"DATABASE_URL,         default=file:catalog.db?_foreign_keys=on"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
	SlowQuery       time.Duration `env:"DB_SLOW_QUERY,        default=200ms"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE,      default=true"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadWith reads configuration from l. The CLI layers flag overrides over
// the process environment; tests pass a MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

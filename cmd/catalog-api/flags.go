package main

import (
	"context"

	"github.com/go-extras/cobraflags"
	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/catalog-api/internal/pkg/config"
)

// Flags override the environment variable of the same meaning.
const (
	portFlag        = "port"
	logLevelFlag    = "log-level"
	dbDriverFlag    = "db-driver"
	databaseURLFlag = "database-url"
)

var flagEnv = map[string]string{
	portFlag:        "PORT",
	logLevelFlag:    "LOG_LEVEL",
	dbDriverFlag:    "DB_DRIVER",
	databaseURLFlag: "DATABASE_URL",
}

// loadConfig reads the environment with non-empty flags taking precedence.
func loadConfig(ctx context.Context, flags map[string]cobraflags.Flag) (*config.Config, error) {
	overrides := make(map[string]string)
	for name, f := range flags {
		if v := f.GetString(); v != "" {
			overrides[flagEnv[name]] = v
		}
	}
	return config.LoadWith(ctx, envconfig.MultiLookuper(
		envconfig.MapLookuper(overrides),
		envconfig.OsLookuper(),
	))
}

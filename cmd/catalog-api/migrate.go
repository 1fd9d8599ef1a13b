package main

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-api/internal/infrastructure/db/rdb"
)

var migrateFlags = map[string]cobraflags.Flag{
	dbDriverFlag: &cobraflags.StringFlag{
		Name:  dbDriverFlag,
		Value: "",
		Usage: "Database driver: sqlite, postgres, mysql (overrides DB_DRIVER)",
	},
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "Database connection string (overrides DATABASE_URL)",
	},
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, migrateFlags)
			if err != nil {
				return err
			}
			log := initLogger(cfg)

			db, err := openDatabase(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("failed to connect to database")
				return err
			}
			defer func() { _ = rdb.Close(db) }()

			if err := rdb.Migrate(ctx, db); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			log.Info().Str("driver", cfg.Database.Driver).Int("tables", len(rdb.Models())).Msg("database schema is up to date")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

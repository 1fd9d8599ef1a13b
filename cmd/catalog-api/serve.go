package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/99minutos/catalog-api/internal/api"
	"github.com/99minutos/catalog-api/internal/api/schema"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/service"
	"github.com/99minutos/catalog-api/internal/infrastructure/db/rdb"
	"github.com/99minutos/catalog-api/internal/pkg/config"
	"github.com/99minutos/catalog-api/pkg/logger"
)

const shutdownGrace = 10 * time.Second

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "Port to listen on (overrides PORT)",
	},
	logLevelFlag: &cobraflags.StringFlag{
		Name:  logLevelFlag,
		Value: "",
		Usage: "Minimum log level: trace, debug, info, warn, error (overrides LOG_LEVEL)",
	},
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, serveFlags)
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

	if cfg.Database.AutoMigrate {
		if err := rdb.Migrate(ctx, db); err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	schemas, err := schema.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load schemas")
		return err
	}

	e := api.NewRouter(newDeps(cfg, db, schemas, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Database.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "catalog-api",
	})
}

func openDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	return rdb.Connect(ctx, rdb.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Logger:          logger.NewGormLogger(log, cfg.Database.SlowQuery),
	})
}

func newDeps(cfg *config.Config, db *gorm.DB, schemas *schema.Registry, log zerolog.Logger) api.Deps {
	return api.Deps{
		Logger:     log,
		APIPrefix:  cfg.APIPrefix,
		AuthScheme: cfg.AuthScheme,
		Schemas:    schemas,
		Categories: service.NewCategoryService(rdb.NewRepository[domain.Category](db), log),
		Products:   service.NewProductService(rdb.NewRepository[domain.Product](db), log),
		Orders:     service.NewOrderService(rdb.NewRepository[domain.Order](db), log),
		OrderItems: service.NewOrderItemService(rdb.NewRepository[domain.OrderItem](db), log),
		Roles:      service.NewRoleService(rdb.NewRepository[domain.Role](db), log),
		Users:      service.NewUserService(rdb.NewUserRepository(db), log),
		Ping:       func(ctx context.Context) error { return rdb.Ping(ctx, db) },
	}
}

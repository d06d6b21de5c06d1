package di

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todos/config"
	"todos/helper"
	"todos/infras/otel"
	"todos/infras/postgres"
	"todos/internal/domains/todo/repository"
	"todos/shared/constant"

	"github.com/rs/zerolog/log"
)

const otelShutdownTimeout = 5 * time.Second

var ErrUnknownDriver = errors.New("unknown database driver")

// ProvideOtel flushes pending spans on cleanup.
func ProvideOtel(cfg *config.Config) (otel.Otel, func()) {
	otl := otel.New(cfg)

	return otl, func() {
		ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()

		if err := otl.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}
}

// ProvideTodoRepository picks the record store from DB_DRIVER. The memory store
// does not survive restarts and is meant for local runs and tests.
func ProvideTodoRepository(cfg *config.Config, otl otel.Otel) (repository.Todo, func(), error) {
	switch cfg.DB.Driver {
	case constant.DBDriverMemory:
		log.Warn().Msg("Using in-memory todo store")

		return repository.NewMemory(), func() {}, nil
	case constant.DBDriverPostgres:
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DB.Driver)
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db, err := postgres.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	return repository.New(db, otl), cleanup, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/core/ports"
	"github.com/stockhub/auth-service/internal/infrastructure/config"
	"github.com/stockhub/auth-service/internal/infrastructure/db/mongo"
	"github.com/stockhub/auth-service/internal/infrastructure/db/sqlstore"
)

// store is the user repository selected by STORE_DRIVER together with what
// the process needs to migrate, probe and close it.
type store struct {
	repo    ports.UserRepository
	name    string
	ping    handler.Check
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		s, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, err
		}
		repo := mongo.NewUserRepository(s)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

		return &store{
			repo:    repo,
			name:    "mongodb",
			ping:    s.Ping,
			migrate: repo.EnsureIndexes,
			close:   s.Close,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("connected to sql store")

		return &store{
			repo: sqlstore.NewUserRepository(db),
			name: cfg.Store.Driver,
			ping: db.PingContext,
			migrate: func(ctx context.Context) error {
				return sqlstore.Migrate(ctx, db)
			},
			close: func(context.Context) error { return db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/ports"
	"github.com/eyeclinic/clinic-system/internal/infrastructure/config"
	mongostore "github.com/eyeclinic/clinic-system/internal/infrastructure/db/mongo"
	pgstore "github.com/eyeclinic/clinic-system/internal/infrastructure/db/postgres"
	"github.com/eyeclinic/clinic-system/internal/infrastructure/http/handlers"
)

// backend is the opened store selected by STORE_DRIVER.
type backend struct {
	stores  ports.Stores
	health  handlers.Dependency
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func openBackend(ctx context.Context, c *config.Config, log zerolog.Logger) (*backend, error) {
	switch c.Store.Driver {
	case config.DriverPostgres:
		db, err := pgstore.Open(ctx, pgstore.Config{DSN: c.Store.PostgresDSN})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", c.Store.Driver).Msg("store connected")
		return &backend{
			stores:  pgstore.NewStores(db),
			health:  handlers.Dependency{Name: "postgres", Ping: func(ctx context.Context) error { return pgstore.Ping(ctx, db) }},
			migrate: func(ctx context.Context) error { return pgstore.Migrate(ctx, db) },
			close:   func(context.Context) error { return pgstore.Close(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: c.Mongo.URI, Database: c.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", c.Store.Driver).Str("database", c.Mongo.Database).Msg("store connected")
		return &backend{
			stores:  mongostore.NewStores(client, db),
			health:  handlers.Dependency{Name: "mongo", Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			migrate: func(ctx context.Context) error { return mongostore.EnsureIndexes(ctx, db) },
			close:   client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
}

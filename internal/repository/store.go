package repository

import (
	"context"
	"fmt"

	"productlist/internal/config"
	"productlist/internal/database"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is an opened product store backend.
type Store struct {
	Products ProductRepository
	Driver   string

	ping  func(ctx context.Context) error
	close func()
}

// Ping verifies that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close() {
	s.close()
}

// Open connects to the backend selected by cfg.Store.Driver. For PostgreSQL
// the embedded migrations are applied first when cfg.Database.AutoMigrate is set.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(cfg.Database.MigrationURL(), logger); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise database: %w", err)
		}

		return &Store{
			Products: NewProductRepository(pool, logger),
			Driver:   config.DriverPostgres,
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.DriverMongo:
		db, err := database.NewMongoDatabase(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise MongoDB: %w", err)
		}

		return &Store{
			Products: NewMongoProductRepository(db, logger),
			Driver:   config.DriverMongo,
			ping: func(ctx context.Context) error {
				return db.Client().Ping(ctx, readpref.Primary())
			},
			close: func() {
				if err := db.Client().Disconnect(context.Background()); err != nil {
					logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

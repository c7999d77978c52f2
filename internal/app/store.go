// Package app assembles the storage backend selected by configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"cafeteria/internal/config"
	"cafeteria/internal/db"
	"cafeteria/internal/repository"
)

// Store is an open storage backend.
type Store struct {
	Repositories *repository.Repositories
	close        func(context.Context) error
}

// Close releases the backend connections.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects the backend named by cfg.StoreDriver and prepares its
// schema. With reset set, existing data is dropped first.
func OpenStore(ctx context.Context, cfg *config.Config, reset bool) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, reset)
	case config.StoreMySQL:
		return openGorm(db.DriverMySQL, cfg.MySQLDSN, reset)
	case config.StoreSQLite:
		return openGorm(db.DriverSQLite, cfg.SQLitePath, reset)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, reset bool) (*Store, error) {
	client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if reset {
		slog.WarnContext(ctx, "RESET_DB set, dropping database", "database", cfg.MongoDatabase)
		if err := database.Drop(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("drop database: %w", err)
		}
	}
	if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		Repositories: repository.NewMongoRepositories(database),
		close:        client.Disconnect,
	}, nil
}

func openGorm(driver, dsn string, reset bool) (*Store, error) {
	gormDB, err := db.NewGorm(driver, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if driver == db.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	if reset {
		slog.Warn("RESET_DB set, dropping all tables", "driver", driver)
		if err := db.DropAll(gormDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{
		Repositories: repository.NewGormRepositories(gormDB),
		close:        func(context.Context) error { return sqlDB.Close() },
	}, nil
}

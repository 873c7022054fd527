package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smilecrest/practice-engine/pkg/config"
)

// DB wraps the pgx connection pool every repository runs on.
type DB struct {
	*pgxpool.Pool
}

// Connection lifetimes are fixed; only the pool size comes from
// configuration.
const (
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
)

// poolConfig builds the pool configuration from the database settings.
func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database settings: %w", err)
	}

	pc.MaxConns = cfg.MaxConnections
	pc.MaxConnLifetime = connMaxLifetime
	pc.MaxConnIdleTime = connMaxIdleTime
	return pc, nil
}

// Connect opens the connection pool and verifies the database is
// reachable.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

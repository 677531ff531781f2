// Package pg provides PostgreSQL connection and migration helpers built on
// pgx and goose.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrFailedToParseConfig     = errors.New("pg: failed to parse connection config")
	ErrFailedToOpenConnection  = errors.New("pg: failed to open database connection")
	ErrFailedToApplyMigrations = errors.New("pg: failed to apply migrations")
)

// Config holds database connection settings.
type Config struct {
	ConnectionString string        `env:"PG_CONN_URL,required"`
	MaxOpenConns     int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	RetryAttempts    int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsPath   string        `env:"PG_MIGRATIONS_PATH" envDefault:"migrations"`
}

// Connect establishes a pgx connection pool, retrying with linear backoff so
// simultaneous service restarts don't hammer a recovering database.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MaxIdleConns

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}
		return pool, nil
	}

	return nil, ErrFailedToOpenConnection
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/schoolportal/internal/pkg/logger"
)

// PoolOptions sizes the connection pool behind the session table
type PoolOptions struct {
	DSN         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
	// ConnectTimeout bounds the initial dial and ping; zero means 10s
	ConnectTimeout time.Duration
}

// PostgresDB holds the pool backing the postgres session store
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB opens the pool and checks that the server answers
func NewPostgresDB(ctx context.Context, opts PoolOptions) (*PostgresDB, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 && opts.MinConns <= opts.MaxConns {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxLifetime
	}

	// Sessions are read on every page, so a dead idle connection is
	// replaced rather than surfaced as a failed request
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Dropping unhealthy session store connection")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session store database unreachable: %w", err)
	}

	stat := pool.Stat()
	logger.Info().Int32("max_conns", stat.MaxConns()).Msg("Session store pool ready")
	return &PostgresDB{Pool: pool}, nil
}

// Close releases the pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// InTx runs fn inside one transaction. fn's error, or a panic, rolls it
// back; otherwise it commits.
func (db *PostgresDB) InTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

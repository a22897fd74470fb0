// Package postgres is the durable store backing the idempotency ledger (C2) and the allocation
// engine (C3): a pgxpool connection plus squirrel-built queries, the same pairing the teacher uses
// (database/sql + squirrel) adapted to pgx's native pool instead of database/sql.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the connection pool.
type Config struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
}

// Pool wraps a pgxpool.Pool, matching the teacher's PostgresConnection "lazy connect, reused
// singleton" shape but without the primary/replica split the ledger component doesn't need.
type Pool struct {
	pool *pgxpool.Pool
}

// Connect dials cfg.DSN and returns a ready Pool.
func Connect(ctx context.Context, cfg Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// DB exposes the underlying pgxpool.Pool for callers that need direct access (migrations, health
// checks).
func (p *Pool) DB() *pgxpool.Pool { return p.pool }

// Close releases every connection in the pool.
func (p *Pool) Close() { p.pool.Close() }

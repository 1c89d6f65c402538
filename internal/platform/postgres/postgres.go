package postgres

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookcatalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 2 * time.Second

// Open creates the shared connection pool and verifies it with a ping.
// The caller owns the pool and must Close it.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(dsn), err)
	}

	log.Printf("database connection OK dsn=%s", config.RedactDSN(dsn))
	return pool, nil
}

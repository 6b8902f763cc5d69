package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens the pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	logger.Info("connected to postgres")

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	logger.Info("schema initialized")

	return pool, nil
}

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	// -------------------------------
	// USERS (stall owners)
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'VENDOR',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	// -------------------------------
	// VENDORS (append-only documents)
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS vendors (
		id UUID PRIMARY KEY,
		owner_id UUID NULL,
		name VARCHAR(255) NOT NULL,
		document JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS vendors_owner_id_idx ON vendors (owner_id)`,

	// -------------------------------
	// ORPHANED MEDIA (uploads without a vendor row)
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS orphaned_media (
		id SERIAL PRIMARY KEY,
		public_id VARCHAR(500) NOT NULL,
		url VARCHAR(1000) NOT NULL,
		stall_name VARCHAR(255) NOT NULL,
		reason TEXT NOT NULL,
		reconciled_at TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jira-assistant/internal/common/config"

	_ "github.com/lib/pq"
)

// auditSchema holds one row per answered query.
const auditSchema = `CREATE TABLE IF NOT EXISTS query_audit (
	id            BIGSERIAL PRIMARY KEY,
	session_id    TEXT NOT NULL,
	query         TEXT NOT NULL,
	response      TEXT NOT NULL,
	confidence    DOUBLE PRECISION NOT NULL,
	sources       TEXT[] NOT NULL DEFAULT '{}',
	action_reason TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate creates the audit table if it does not exist yet.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("migrate query_audit: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

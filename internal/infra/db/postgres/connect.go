package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool and pings it.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS news_verifications (
  id           TEXT        PRIMARY KEY,
  tenant_id    TEXT        NOT NULL,
  kind         TEXT        NOT NULL,
  content      TEXT        NOT NULL,
  status       TEXT        NOT NULL,
  confidence   SMALLINT    NOT NULL,
  sources_json JSONB       NOT NULL DEFAULT '[]',
  analysis     TEXT        NOT NULL,
  report_url   TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_news_verifications_tenant_created
  ON news_verifications (tenant_id, created_at DESC);`

// EnsureSchema creates the records table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create news_verifications: %w", err)
	}
	return nil
}

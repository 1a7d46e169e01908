package db

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id             UUID PRIMARY KEY,
		name           VARCHAR(100) NOT NULL,
		phone          VARCHAR(15) NOT NULL,
		password_hash  BYTEA NOT NULL,
		vehicle_type   VARCHAR(16) NOT NULL DEFAULT 'Auto'
			CHECK (vehicle_type IN ('Auto', 'Rickshaw')),
		vehicle_number VARCHAR(20) NOT NULL,
		status         VARCHAR(16) NOT NULL DEFAULT 'OFFLINE'
			CHECK (status IN ('OFFLINE', 'BUSY', 'AVAILABLE')),
		location       TEXT,
		last_updated   TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (status <> 'AVAILABLE' OR location IS NOT NULL)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS drivers_phone_key ON drivers (phone)`,
	`CREATE INDEX IF NOT EXISTS drivers_status_updated_idx ON drivers (status, last_updated DESC)`,
}

// Migrate creates the schema. Every statement is idempotent.
func (d *DataBase) Migrate(ctx context.Context) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range migrations {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	d.mylog.Action("migrate").Info("schema is up to date", "statements", len(migrations))
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Sem foreign keys: a integridade entre coleções é mantida pelos use cases.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS agents (
		id                  UUID PRIMARY KEY,
		name                TEXT NOT NULL,
		email               TEXT NOT NULL UNIQUE,
		password            TEXT NOT NULL,
		role                TEXT NOT NULL DEFAULT 'agent',
		phone_number        TEXT,
		assigned_leads      TEXT[] NOT NULL DEFAULT '{}',
		total_leads_handled INTEGER NOT NULL DEFAULT 0,
		closed_deals        INTEGER NOT NULL DEFAULT 0,
		avg_response_time   DOUBLE PRECISION,
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id                   UUID PRIMARY KEY,
		name                 TEXT,
		email                TEXT,
		phone                TEXT,
		source               TEXT,
		status               TEXT,
		lead_type            TEXT,
		priority             TEXT,
		budget_range         JSONB,
		property_preferences JSONB,
		timeline             TEXT,
		assigned_agent       UUID,
		buyers               TEXT[] NOT NULL DEFAULT '{}',
		sellers              JSONB NOT NULL DEFAULT '[]',
		notes                JSONB NOT NULL DEFAULT '[]',
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS leads_assigned_agent_idx ON leads (assigned_agent)`,
	`CREATE TABLE IF NOT EXISTS buyers (
		id                     UUID PRIMARY KEY,
		lead_id                UUID NOT NULL,
		interested_location    TEXT,
		interested_square_feet TEXT,
		assigned_agent         UUID,
		created_at             TIMESTAMPTZ NOT NULL,
		updated_at             TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS buyers_lead_id_idx ON buyers (lead_id)`,
	`CREATE TABLE IF NOT EXISTS sellers (
		id                   UUID PRIMARY KEY,
		lead_id              UUID NOT NULL,
		property_location    TEXT,
		property_square_feet TEXT,
		property_value       TEXT,
		property_type        TEXT,
		bedrooms             TEXT,
		bathrooms            TEXT,
		listing_status       TEXT NOT NULL DEFAULT 'available',
		assigned_agent       UUID,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sellers_lead_id_idx ON sellers (lead_id)`,
}

// Migrate cria as tabelas que faltam. Idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// owner_id fica NULL ou vazio nos registros anteriores ao login por usuário.
const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT,
	company_name    TEXT NOT NULL DEFAULT '',
	niche           TEXT NOT NULL DEFAULT '',
	territory       TEXT NOT NULL DEFAULT '',
	contact_name    TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	whatsapp        TEXT NOT NULL DEFAULT '',
	instagram       TEXT NOT NULL DEFAULT '',
	facebook        TEXT NOT NULL DEFAULT '',
	linkedin        TEXT NOT NULL DEFAULT '',
	website         TEXT NOT NULL DEFAULT '',
	google_maps     TEXT NOT NULL DEFAULT '',
	website_quality TEXT NOT NULL DEFAULT 'none',
	stage           TEXT NOT NULL DEFAULT 'new',
	source          TEXT NOT NULL DEFAULT 'manual',
	notes           TEXT NOT NULL DEFAULT '',
	value           DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_contact_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_leads_owner ON leads (owner_id);

CREATE TABLE IF NOT EXISTS scripts (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT 'initial',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scripts_owner ON scripts (owner_id);
`

// EnsureSchema cria as tabelas se ainda não existirem.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"entgo.io/ent/dialect"

	"github.com/shavaan/team2-Hack/internal/common"
)

const tableLawChanges = "law_changes"

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS law_changes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL UNIQUE CHECK (fingerprint <> ''),
	date_changed TEXT NOT NULL,
	jurisdiction TEXT NOT NULL,
	summary TEXT NOT NULL,
	source_url TEXT NOT NULL,
	source_pdf_filename TEXT NOT NULL,
	extracted_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS law_changes_date_changed_id ON law_changes (date_changed, id)`,
	`CREATE INDEX IF NOT EXISTS law_changes_jurisdiction ON law_changes (jurisdiction)`,
}

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS law_changes (
	id BIGSERIAL PRIMARY KEY,
	fingerprint TEXT NOT NULL UNIQUE CHECK (fingerprint <> ''),
	date_changed TEXT NOT NULL,
	jurisdiction TEXT NOT NULL,
	summary TEXT NOT NULL,
	source_url TEXT NOT NULL,
	source_pdf_filename TEXT NOT NULL,
	extracted_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS law_changes_date_changed_id ON law_changes (date_changed, id)`,
	`CREATE INDEX IF NOT EXISTS law_changes_jurisdiction ON law_changes (jurisdiction)`,
}

// Migrate creates the law_changes table and its indexes when absent.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := sqliteDDL
	if d.Dialect() == dialect.Postgres {
		stmts = postgresDDL
	}
	for _, stmt := range stmts {
		if _, err := d.SQL().ExecContext(ctx, stmt); err != nil {
			d.logger.Error("migration failed", "error", err)
			return common.Storage("migrate schema", err)
		}
	}
	d.logger.Debug("schema ready", "table", tableLawChanges, "dialect", d.Dialect())
	return nil
}

package session

import (
	"context"
	"fmt"
)

// schemaVersion bumps whenever the table shape changes. The workspace database
// is a rebuildable index; on mismatch it is cleared and rescanned rather than
// migrated.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    path             TEXT PRIMARY KEY,
    filename         TEXT NOT NULL,
    show             TEXT NOT NULL DEFAULT '',
    scene            TEXT NOT NULL DEFAULT '',
    take             TEXT NOT NULL DEFAULT '',
    slate            TEXT NOT NULL DEFAULT '',
    category         TEXT NOT NULL DEFAULT '',
    subcategory      TEXT NOT NULL DEFAULT '',
    note             TEXT NOT NULL DEFAULT '',
    wildtrack        TEXT NOT NULL DEFAULT 'false',
    circled          TEXT NOT NULL DEFAULT 'false',
    sample_rate      INTEGER NOT NULL DEFAULT 0,
    bit_depth        INTEGER NOT NULL DEFAULT 0,
    channels         INTEGER NOT NULL DEFAULT 0,
    duration_seconds REAL NOT NULL DEFAULT 0,
    size_bytes       INTEGER NOT NULL DEFAULT 0,
    modified_at      TEXT NOT NULL DEFAULT '',
    format           TEXT NOT NULL DEFAULT '',
    dirty            INTEGER NOT NULL DEFAULT 0,
    scanned_at       TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mirror_runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at  TEXT NOT NULL,
    destination TEXT NOT NULL,
    copied      INTEGER NOT NULL,
    conflicts   INTEGER NOT NULL,
    errors      INTEGER NOT NULL,
    success     INTEGER NOT NULL
);
`

func (s *Store) applySchema(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	if err == nil && version != schemaVersion {
		if _, dropErr := s.db.ExecContext(ctx,
			`DROP TABLE IF EXISTS records; DROP TABLE IF EXISTS mirror_runs; DROP TABLE IF EXISTS schema_info`); dropErr != nil {
			return fmt.Errorf("reset schema: %w", dropErr)
		}
	}

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}

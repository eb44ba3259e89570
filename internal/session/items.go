package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slated/internal/metadata"
	"slated/internal/mirror"
)

// Item is one working-set entry: a canonical record plus edit state.
type Item struct {
	metadata.Record
	Dirty     bool
	ScannedAt time.Time
	UpdatedAt time.Time
}

const itemColumns = `path, filename, show, scene, take, slate, category, subcategory, note,
	wildtrack, circled, sample_rate, bit_depth, channels, duration_seconds,
	size_bytes, modified_at, format, dirty, scanned_at, updated_at`

// Upsert stores a freshly resolved record, replacing any previous entry for
// the same path. A rescan discards pending edits for that path.
func (s *Store) Upsert(ctx context.Context, record *metadata.Record) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			show = excluded.show, scene = excluded.scene, take = excluded.take,
			slate = excluded.slate, category = excluded.category,
			subcategory = excluded.subcategory, note = excluded.note,
			wildtrack = excluded.wildtrack, circled = excluded.circled,
			sample_rate = excluded.sample_rate, bit_depth = excluded.bit_depth,
			channels = excluded.channels, duration_seconds = excluded.duration_seconds,
			size_bytes = excluded.size_bytes, modified_at = excluded.modified_at,
			format = excluded.format, dirty = 0,
			scanned_at = excluded.scanned_at, updated_at = excluded.updated_at`,
		record.Path, record.Filename,
		record.Show, record.Scene, record.Take, record.Slate,
		record.Category, record.Subcategory, record.Note,
		record.Wildtrack, record.Circled,
		record.Info.SampleRate, record.Info.BitDepth, record.Info.Channels,
		record.Info.DurationSeconds, record.Info.SizeBytes,
		record.Info.ModifiedAt.UTC().Format(time.RFC3339Nano), record.Info.Format,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Get fetches one entry by path, or nil when absent.
func (s *Store) Get(ctx context.Context, path string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM records WHERE path = ?`, path)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return item, nil
}

// List returns every entry ordered by path.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	return s.query(ctx, `SELECT `+itemColumns+` FROM records ORDER BY path`)
}

// Dirty returns entries with unsaved edits, ordered by path.
func (s *Store) Dirty(ctx context.Context) ([]*Item, error) {
	return s.query(ctx, `SELECT `+itemColumns+` FROM records WHERE dirty = 1 ORDER BY path`)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetField records a pending edit on one structural field and marks the entry
// dirty. Unknown fields are rejected.
func (s *Store) SetField(ctx context.Context, path, field, value string) error {
	probe := &metadata.Record{}
	if !probe.SetFieldValue(field, value) {
		return fmt.Errorf("unknown field %q", field)
	}
	// Flags are stored in their coerced "true"/"false" form.
	stored := probe.FieldValue(field)
	if field == "wildtrack" {
		stored = probe.Wildtrack
	}
	if field == "circled" {
		stored = probe.Circled
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET `+field+` = ?, dirty = 1, updated_at = ? WHERE path = ?`,
		stored, now, path)
	if err != nil {
		return fmt.Errorf("set field: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set field: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no record for path %s", path)
	}
	return nil
}

// MarkClean clears the dirty flag after a successful write-back.
func (s *Store) MarkClean(ctx context.Context, path string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`UPDATE records SET dirty = 0, updated_at = ? WHERE path = ?`, now, path); err != nil {
		return fmt.Errorf("mark clean: %w", err)
	}
	return nil
}

// Remove drops an entry from the working set.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

// RecordMirrorRun appends one mirror run to the history table.
func (s *Store) RecordMirrorRun(ctx context.Context, destination string, result *mirror.Result) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mirror_runs (started_at, destination, copied, conflicts, errors, success)
		VALUES (?, ?, ?, ?, ?, ?)`,
		now, destination, result.CopiedCount, len(result.Conflicts), len(result.Errors), boolInt(result.Success))
	if err != nil {
		return fmt.Errorf("record mirror run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var modifiedAt, scannedAt, updatedAt string
	var dirty int
	err := row.Scan(
		&item.Path, &item.Filename,
		&item.Show, &item.Scene, &item.Take, &item.Slate,
		&item.Category, &item.Subcategory, &item.Note,
		&item.Wildtrack, &item.Circled,
		&item.Info.SampleRate, &item.Info.BitDepth, &item.Info.Channels,
		&item.Info.DurationSeconds, &item.Info.SizeBytes,
		&modifiedAt, &item.Info.Format,
		&dirty, &scannedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Dirty = dirty != 0
	item.Info.ModifiedAt = parseTime(modifiedAt)
	item.ScannedAt = parseTime(scannedAt)
	item.UpdatedAt = parseTime(updatedAt)
	return &item, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

package writeback

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"slated/internal/ixml"
	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/services"
	"slated/internal/wavio"
)

// serialize is swappable so tests can force a serialization failure mid-write.
var serialize = ixml.Serialize

// SetSerializeForTests substitutes the structured-metadata serializer and
// returns a restore func.
func SetSerializeForTests(fn func(*ixml.Document) (string, error)) func() {
	previous := serialize
	serialize = fn
	return func() { serialize = previous }
}

// Serializer projects edited canonical records back into the two metadata
// chunks of a WAV file.
type Serializer struct {
	logger      *slog.Logger
	keepBackups bool
}

// NewSerializer constructs a write-back serializer. keepBackups retains
// pre-write snapshots after successful commits.
func NewSerializer(logger *slog.Logger, keepBackups bool) *Serializer {
	return &Serializer{
		logger:      logging.NewComponentLogger(logger, "writeback"),
		keepBackups: keepBackups,
	}
}

// WriteBack merges the record's authoritative fields into the container at
// path and commits the result. Only show (to the broadcast originator) and
// show/scene/take/slate/note/circled (to the structured-metadata tree) are
// written; every other key in both substructures is preserved as-is. On any
// failure the file is restored byte-identical to its pre-write state before
// the error propagates.
func (s *Serializer) WriteBack(ctx context.Context, path string, record *metadata.Record) error {
	logger := logging.WithContext(ctx, s.logger)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "writeback", "read", path, err)
		}
		return services.Wrap(services.ErrIO, "writeback", "read", path, err)
	}

	txn, err := Begin(path, s.keepBackups)
	if err != nil {
		return err
	}

	updated, err := s.mergeAndSerialize(logger, data, record)
	if err != nil {
		return s.rollback(logger, txn, err)
	}
	if err := txn.Write(updated); err != nil {
		return s.rollback(logger, txn, err)
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	logger.Debug("metadata written back",
		logging.String("path", path),
		logging.String("transaction_id", txn.ID))
	return nil
}

func (s *Serializer) rollback(logger *slog.Logger, txn *Transaction, cause error) error {
	if restoreErr := txn.Rollback(); restoreErr != nil {
		logger.Error("rollback failed after write error",
			logging.Error(restoreErr),
			logging.String("backup", txn.BackupPath()))
		return errors.Join(cause, restoreErr)
	}
	return cause
}

func (s *Serializer) mergeAndSerialize(logger *slog.Logger, data []byte, record *metadata.Record) ([]byte, error) {
	container, err := wavio.Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrSerialization, "writeback", "parse container", "", err)
	}

	doc, err := ixml.Parse(container.IXML())
	if err != nil {
		// The on-disk tree is unreadable; fall back to the record's
		// in-memory passthrough copy so vendor keys are not lost.
		logger.Warn("existing structured metadata unreadable, using in-memory copy", logging.Error(err))
		doc = record.IXML
		if doc == nil {
			doc = &ixml.Document{}
		}
	}

	doc.Project = record.Show
	doc.Scene = record.Scene
	doc.Take = record.Take
	doc.Slate = record.Slate
	doc.Note = record.Note
	doc.Circled = circledValue(doc.Circled, record.Circled)

	wire, err := serialize(doc)
	if err != nil {
		return nil, services.Wrap(services.ErrSerialization, "writeback", "serialize structured metadata", "", err)
	}
	container.SetIXML(wire)

	bext, err := container.Bext()
	if err != nil {
		logger.Warn("existing broadcast metadata unreadable, rebuilding", logging.Error(err))
		bext = record.Bext
	}
	if bext == nil {
		bext = &wavio.Bext{}
	}
	if record.Show != "" {
		bext.Originator = record.Show
	}
	if err := container.SetBext(bext); err != nil {
		return nil, services.Wrap(services.ErrSerialization, "writeback", "encode broadcast metadata", "", err)
	}

	return container.Bytes(), nil
}

// circledValue keeps an untagged file untagged when the flag is false, and
// writes an explicit TRUE/FALSE once the chunk carries the key.
func circledValue(existing, flag string) string {
	if flag == "true" {
		return "TRUE"
	}
	if existing == "" {
		return ""
	}
	return "FALSE"
}

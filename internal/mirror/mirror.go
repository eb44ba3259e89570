package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"slated/internal/fileutil"
	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/services"
	"slated/internal/writeback"
)

// ConflictAction describes how a destination collision is handled. Only
// ActionSkip is produced today; overwrite and rename are declared extension
// points.
type ConflictAction string

const (
	ActionSkip      ConflictAction = "skip"
	ActionOverwrite ConflictAction = "overwrite"
	ActionRename    ConflictAction = "rename"
)

// Config drives one mirror run.
type Config struct {
	DestinationRoot string          `json:"destination_root"`
	OrganizeLevels  []OrganizeLevel `json:"organize_levels"`
	// SelectedPaths restricts the run to these source paths; empty means all.
	SelectedPaths []string `json:"selected_paths,omitempty"`
	Concurrency   int      `json:"concurrency,omitempty"`
	VerifyCopies  bool     `json:"verify_copies,omitempty"`
}

// Conflict records a destination that already existed before copying.
type Conflict struct {
	SourcePath  string         `json:"source_path"`
	Destination string         `json:"destination"`
	Action      ConflictAction `json:"action"`
}

// FileError is one isolated per-file failure inside a batch.
type FileError struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result aggregates a mirror run. Success is false exactly when Errors is
// non-empty; conflicts alone do not fail a run.
type Result struct {
	Success     bool        `json:"success"`
	CopiedCount int         `json:"copied_count"`
	Errors      []FileError `json:"errors,omitempty"`
	Conflicts   []Conflict  `json:"conflicts,omitempty"`
}

// Engine copies records into a metadata-derived directory tree and stamps the
// copies with the records' in-memory field values.
type Engine struct {
	serializer *writeback.Serializer
	logger     *slog.Logger
}

// NewEngine constructs a mirror engine.
func NewEngine(logger *slog.Logger, serializer *writeback.Serializer) *Engine {
	return &Engine{
		serializer: serializer,
		logger:     logging.NewComponentLogger(logger, "mirror"),
	}
}

// Mirror copies the selected records under the destination root. Failures are
// isolated per file; the run itself fails only on unusable configuration or a
// missing destination root that cannot be created.
func (e *Engine) Mirror(ctx context.Context, cfg Config, records []*metadata.Record) (*Result, error) {
	logger := logging.WithContext(ctx, e.logger)

	selected, err := e.prepare(cfg, records)
	if err != nil {
		return nil, err
	}
	logger.Info("mirror run starting",
		logging.Int("files", len(selected)),
		logging.String("destination", cfg.DestinationRoot))

	result := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan *metadata.Record)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				copied, conflict, fileErr := e.mirrorOne(ctx, cfg, record)
				mu.Lock()
				if copied {
					result.CopiedCount++
				}
				if conflict != nil {
					result.Conflicts = append(result.Conflicts, *conflict)
				}
				if fileErr != nil {
					result.Errors = append(result.Errors, *fileErr)
				}
				mu.Unlock()
			}
		}()
	}
	for _, record := range selected {
		jobs <- record
	}
	close(jobs)
	wg.Wait()

	result.Success = len(result.Errors) == 0
	logger.Info("mirror run finished",
		logging.Int("copied", result.CopiedCount),
		logging.Int("conflicts", len(result.Conflicts)),
		logging.Int("errors", len(result.Errors)))
	return result, nil
}

// CheckConflicts is a dry run of the conflict scan, returning human-readable
// descriptions of destinations that already exist.
func (e *Engine) CheckConflicts(ctx context.Context, cfg Config, records []*metadata.Record) ([]string, error) {
	selected, err := e.prepare(cfg, records)
	if err != nil {
		return nil, err
	}

	var descriptions []string
	for _, record := range selected {
		destination := BuildDestination(cfg.DestinationRoot, cfg.OrganizeLevels, record)
		exists, statErr := fileutil.PathExists(destination)
		if statErr != nil {
			return nil, services.Wrap(services.ErrIO, "mirror", "check destination", destination, statErr)
		}
		if exists {
			descriptions = append(descriptions,
				fmt.Sprintf("%s already exists (source %s)", destination, record.Path))
		}
	}
	return descriptions, nil
}

func (e *Engine) prepare(cfg Config, records []*metadata.Record) ([]*metadata.Record, error) {
	if strings.TrimSpace(cfg.DestinationRoot) == "" {
		return nil, services.Wrap(services.ErrValidation, "mirror", "validate config", "destination root not set", nil)
	}
	for _, level := range cfg.OrganizeLevels {
		switch level.Field {
		case "show", "scene", "take", "category", "subcategory":
		default:
			return nil, services.Wrap(services.ErrValidation, "mirror", "validate config",
				fmt.Sprintf("unknown organize field %q", level.Field), nil)
		}
	}
	if err := fileutil.EnsureDir(cfg.DestinationRoot); err != nil {
		return nil, services.Wrap(services.ErrIO, "mirror", "create destination root", cfg.DestinationRoot, err)
	}
	return selectRecords(cfg, records), nil
}

func selectRecords(cfg Config, records []*metadata.Record) []*metadata.Record {
	if len(cfg.SelectedPaths) == 0 {
		return records
	}
	wanted := make(map[string]struct{}, len(cfg.SelectedPaths))
	for _, path := range cfg.SelectedPaths {
		wanted[path] = struct{}{}
	}
	selected := make([]*metadata.Record, 0, len(records))
	for _, record := range records {
		if _, ok := wanted[record.Path]; ok {
			selected = append(selected, record)
		}
	}
	return selected
}

func (e *Engine) mirrorOne(ctx context.Context, cfg Config, record *metadata.Record) (bool, *Conflict, *FileError) {
	destination := BuildDestination(cfg.DestinationRoot, cfg.OrganizeLevels, record)

	exists, err := fileutil.PathExists(destination)
	if err != nil {
		return false, nil, e.fileError(record, services.Wrap(services.ErrIO, "mirror", "check destination", destination, err))
	}
	if exists {
		return false, &Conflict{SourcePath: record.Path, Destination: destination, Action: ActionSkip}, nil
	}

	if err := fileutil.EnsureParentDir(destination); err != nil {
		return false, nil, e.fileError(record, services.Wrap(services.ErrIO, "mirror", "create directories", destination, err))
	}

	copyFn := fileutil.CopyFile
	if cfg.VerifyCopies {
		copyFn = fileutil.CopyFileVerified
	}
	if err := copyFn(record.Path, destination); err != nil {
		return false, nil, e.fileError(record, services.Wrap(services.ErrIO, "mirror", "copy", destination, err))
	}

	// Stamp the copy from the record's in-memory state so unsaved edits are
	// reflected even when the source file was never written.
	if err := e.serializer.WriteBack(ctx, destination, record); err != nil {
		return false, nil, e.fileError(record, err)
	}

	return true, nil, nil
}

func (e *Engine) fileError(record *metadata.Record, err error) *FileError {
	e.logger.Warn("mirror file failed",
		logging.String("path", record.Path),
		logging.Error(err))
	return &FileError{
		Path:    record.Path,
		Kind:    services.Classify(err),
		Message: err.Error(),
	}
}

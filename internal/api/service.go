package api

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/mirror"
	"slated/internal/services"
	"slated/internal/writeback"
)

// Service is the public face of the engine: one-shot reads and writes,
// directory scans, and mirror runs. Calls share no mutable state, so one
// Service may serve any number of concurrent callers.
type Service struct {
	resolver   *metadata.Resolver
	serializer *writeback.Serializer
	engine     *mirror.Engine
	logger     *slog.Logger
}

// NewService wires the resolver, write-back serializer, and mirror engine
// behind one facade. keepBackups retains pre-write snapshots after successful
// write-backs.
func NewService(logger *slog.Logger, keepBackups bool) *Service {
	serializer := writeback.NewSerializer(logger, keepBackups)
	return &Service{
		resolver:   metadata.NewResolver(logger),
		serializer: serializer,
		engine:     mirror.NewEngine(logger, serializer),
		logger:     logging.NewComponentLogger(logger, "api"),
	}
}

// ReadMetadata resolves one file into its canonical record.
func (s *Service) ReadMetadata(ctx context.Context, path string) (*metadata.Record, error) {
	return s.resolver.Resolve(ctx, path)
}

// WriteMetadata merges the record's authoritative fields into the container
// at path. On failure the file is left byte-identical to its prior state.
func (s *Service) WriteMetadata(ctx context.Context, path string, record *metadata.Record) error {
	if record == nil {
		return services.Wrap(services.ErrValidation, "api", "write metadata", "nil record", nil)
	}
	return s.serializer.WriteBack(ctx, path, record)
}

// MirrorFiles copies the selected records into a metadata-derived tree under
// the configured destination root.
func (s *Service) MirrorFiles(ctx context.Context, cfg mirror.Config, records []*metadata.Record) (*mirror.Result, error) {
	return s.engine.Mirror(ctx, cfg, records)
}

// CheckFileConflicts reports destinations that already exist, without copying.
func (s *Service) CheckFileConflicts(ctx context.Context, cfg mirror.Config, records []*metadata.Record) ([]string, error) {
	return s.engine.CheckConflicts(ctx, cfg, records)
}

// Issue is one per-file failure inside a batch read.
type Issue struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BatchResult aggregates a batch read. Records are ordered by path; failed
// files appear under Issues and never abort the rest of the batch.
type BatchResult struct {
	Records []*metadata.Record `json:"records"`
	Issues  []Issue            `json:"issues,omitempty"`
}

// ReadBatch resolves many files under a bounded worker pool. concurrency
// below one runs sequentially.
func (s *Service) ReadBatch(ctx context.Context, paths []string, concurrency int) *BatchResult {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)

	result := &BatchResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	if concurrency < 1 {
		concurrency = 1
	}
	jobs := make(chan string)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				record, err := s.resolver.Resolve(services.WithFilePath(ctx, path), path)
				mu.Lock()
				if err != nil {
					result.Issues = append(result.Issues, Issue{
						Path:    path,
						Kind:    services.Classify(err),
						Message: err.Error(),
					})
				} else {
					result.Records = append(result.Records, record)
				}
				mu.Unlock()
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Slice(result.Records, func(i, j int) bool { return result.Records[i].Path < result.Records[j].Path })
	sort.Slice(result.Issues, func(i, j int) bool { return result.Issues[i].Path < result.Issues[j].Path })

	logger.Debug("batch read finished",
		logging.Int("resolved", len(result.Records)),
		logging.Int("issues", len(result.Issues)))
	return result
}

// ScanDirectory walks root for WAV files and resolves them as a batch.
func (s *Service) ScanDirectory(ctx context.Context, root string, concurrency int) (*BatchResult, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "api", "scan directory", root, err)
	}
	return s.ReadBatch(ctx, paths, concurrency), nil
}

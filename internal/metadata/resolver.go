package metadata

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"slated/internal/filename"
	"slated/internal/ixml"
	"slated/internal/logging"
	"slated/internal/services"
	"slated/internal/wavio"
)

// sources holds the three competing inputs a resolution draws from. A nil
// member means that source contributed nothing.
type sources struct {
	ix *ixml.Document
	fn *filename.Match
	bx *wavio.Bext
}

// fieldRule declares the ordered precedence chain for one structural field.
// Evaluation assigns the first non-empty value; a later source never
// overwrites an earlier one.
type fieldRule struct {
	field   string
	sources []func(*sources) string
}

var fieldRules = []fieldRule{
	{"show", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Project }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Show }) },
		func(s *sources) string { return s.bxField(func(b *wavio.Bext) string { return b.Originator }) },
	}},
	{"scene", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Scene }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Scene }) },
	}},
	{"take", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Take }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Take }) },
	}},
	{"slate", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Slate }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Slate }) },
	}},
	{"category", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Category }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Category }) },
	}},
	{"subcategory", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Subcategory }) },
		func(s *sources) string { return s.fnField(func(m *filename.Match) string { return m.Subcategory }) },
	}},
	{"note", []func(*sources) string{
		func(s *sources) string { return s.ixField(func(d *ixml.Document) string { return d.Note }) },
		func(s *sources) string { return s.bxField(func(b *wavio.Bext) string { return b.Description }) },
	}},
}

func (s *sources) ixField(get func(*ixml.Document) string) string {
	if s.ix == nil {
		return ""
	}
	return strings.TrimSpace(get(s.ix))
}

func (s *sources) fnField(get func(*filename.Match) string) string {
	if s.fn == nil {
		return ""
	}
	return strings.TrimSpace(get(s.fn))
}

func (s *sources) bxField(get func(*wavio.Bext) string) string {
	if s.bx == nil {
		return ""
	}
	return strings.TrimSpace(get(s.bx))
}

// descriptionPattern recovers scene/take hints from free-text broadcast
// descriptions such as "SC07_TK03 voiceover" or "Scene 5 Take 2".
var descriptionPattern = regexp.MustCompile(`(?i)S(?:C|CNE)?[_ ]*(\d+(?:\.\d+)?)[_ ]*T(?:K|AKE)?[_ ]*(\d+)`)

// Resolver reads WAV containers and merges their metadata sources into
// canonical records.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a resolver. A nil logger disables logging.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logging.NewComponentLogger(logger, "resolver")}
}

// Resolve reads the container at path and produces its canonical record.
// Only the recognized audio container type is accepted; a parse failure in one
// metadata chunk is absorbed and never blocks the other chunk or file info.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Record, error) {
	logger := logging.WithContext(ctx, r.logger)

	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return nil, services.Wrap(services.ErrUnsupportedFormat, "resolver", "open", "only .wav containers are supported", nil)
	}

	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "resolver", "stat", path, err)
		}
		return nil, services.Wrap(services.ErrIO, "resolver", "stat", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "resolver", "read", path, err)
	}

	container, err := wavio.Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrUnsupportedFormat, "resolver", "parse container", path, err)
	}

	record := r.resolveContainer(logger, container, filepath.Base(path))
	record.Path = path
	record.Info.SizeBytes = stat.Size()
	record.Info.ModifiedAt = stat.ModTime()
	return record, nil
}

// resolveContainer runs the precedence merge over an already-parsed container.
func (r *Resolver) resolveContainer(logger *slog.Logger, container *wavio.File, name string) *Record {
	src := &sources{fn: filename.Parse(name)}

	// Each chunk is parsed independently; a corrupt chunk contributes
	// nothing but must not abort the rest of the extraction.
	ixDoc, err := ixml.Parse(container.IXML())
	if err != nil {
		logger.Warn("structured metadata chunk unreadable, ignoring",
			logging.String("file", name),
			logging.Error(services.Wrap(services.ErrCorruptChunk, "resolver", "parse structured metadata", "", err)))
		ixDoc = &ixml.Document{}
	}
	src.ix = ixDoc

	bext, err := container.Bext()
	if err != nil {
		logger.Warn("broadcast metadata chunk unreadable, ignoring",
			logging.String("file", name),
			logging.Error(services.Wrap(services.ErrCorruptChunk, "resolver", "parse broadcast metadata", "", err)))
		bext = nil
	}
	src.bx = bext

	record := &Record{
		Filename: name,
		Bext:     bext,
		IXML:     ixDoc,
	}

	for _, rule := range fieldRules {
		for _, get := range rule.sources {
			if value := get(src); value != "" {
				record.SetFieldValue(rule.field, value)
				break
			}
		}
	}

	record.Wildtrack = boolString(ixml.TrueString(ixDoc.WildTrack))
	record.Circled = boolString(ixml.TrueString(ixDoc.Circled))

	recoverFromDescription(record, src)
	fillFileInfo(record, container)
	return record
}

// recoverFromDescription assigns scene/take from the broadcast description
// when the table above left either empty. Fields that already resolved are
// never touched.
func recoverFromDescription(record *Record, src *sources) {
	if record.Scene != "" && record.Take != "" {
		return
	}
	description := src.bxField(func(b *wavio.Bext) string { return b.Description })
	if description == "" {
		return
	}
	groups := descriptionPattern.FindStringSubmatch(description)
	if groups == nil {
		return
	}
	if record.Scene == "" {
		record.Scene = groups[1]
	}
	if record.Take == "" {
		record.Take = groups[2]
	}
}

func fillFileInfo(record *Record, container *wavio.File) {
	info, err := container.Format()
	if err != nil {
		// fmt chunk missing or malformed; size and mod time still apply.
		return
	}
	record.Info.SampleRate = int(info.SampleRate)
	record.Info.BitDepth = int(info.BitsPerSample)
	record.Info.Channels = int(info.Channels)
	record.Info.DurationSeconds = container.DurationSeconds()
	record.Info.Format = info.FormatName()
}

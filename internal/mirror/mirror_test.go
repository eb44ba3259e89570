package mirror_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/mirror"
	"slated/internal/services"
	"slated/internal/testsupport"
	"slated/internal/writeback"
)

func newEngine() *mirror.Engine {
	return mirror.NewEngine(logging.NewNop(), writeback.NewSerializer(logging.NewNop(), false))
}

func sourceRecords(t *testing.T, dir string, names ...string) []*metadata.Record {
	t.Helper()
	resolver := metadata.NewResolver(logging.NewNop())
	records := make([]*metadata.Record, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		testsupport.WriteWAV(t, path, testsupport.WAVSpec{})
		record, err := resolver.Resolve(context.Background(), path)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}
		records = append(records, record)
	}
	return records
}

func TestMirrorIdempotence(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	records := sourceRecords(t, src, "PR2_Allen_Sc1_01.wav", "PR2_Allen_Sc2_01.wav", "PR2_Allen_Sc3_01.wav")

	cfg := mirror.Config{
		DestinationRoot: dest,
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "show", Order: 0}, {Field: "scene", Order: 1}},
		Concurrency:     2,
	}

	first, err := newEngine().Mirror(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if !first.Success || first.CopiedCount != 3 || len(first.Conflicts) != 0 {
		t.Fatalf("first run: %+v", first)
	}

	second, err := newEngine().Mirror(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("second Mirror: %v", err)
	}
	if !second.Success || second.CopiedCount != 0 || len(second.Conflicts) != 3 {
		t.Fatalf("second run: %+v", second)
	}
	for _, conflict := range second.Conflicts {
		if conflict.Action != mirror.ActionSkip {
			t.Fatalf("conflict action = %q", conflict.Action)
		}
	}
}

func TestMirrorStampsUnsavedEdits(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	records := sourceRecords(t, src, "PR2_Allen_Sc1_01.wav")

	// Edit in memory only; the source file on disk keeps its old metadata.
	records[0].Scene = "99"
	records[0].Note = "edited before save"

	cfg := mirror.Config{
		DestinationRoot: dest,
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "scene", Order: 0}},
	}
	result, err := newEngine().Mirror(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if result.CopiedCount != 1 {
		t.Fatalf("result: %+v", result)
	}

	copied := filepath.Join(dest, "99", "PR2_Allen_Sc1_01.wav")
	record, err := metadata.NewResolver(logging.NewNop()).Resolve(context.Background(), copied)
	if err != nil {
		t.Fatalf("Resolve copy: %v", err)
	}
	if record.Scene != "99" || record.Note != "edited before save" {
		t.Fatalf("copy not stamped: %+v", record)
	}
}

func TestMirrorSelectedPathsSubset(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	records := sourceRecords(t, src, "PR2_Allen_Sc1_01.wav", "PR2_Allen_Sc2_01.wav")

	cfg := mirror.Config{
		DestinationRoot: dest,
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "scene", Order: 0}},
		SelectedPaths:   []string{records[1].Path},
	}
	result, err := newEngine().Mirror(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if result.CopiedCount != 1 {
		t.Fatalf("result: %+v", result)
	}
	if _, err := os.Stat(filepath.Join(dest, "1", "PR2_Allen_Sc1_01.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("unselected record was copied")
	}
}

func TestMirrorIsolatesPerFileFailures(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	records := sourceRecords(t, src, "PR2_Allen_Sc1_01.wav", "PR2_Allen_Sc2_01.wav")

	// Remove one source so its copy fails mid-batch.
	if err := os.Remove(records[0].Path); err != nil {
		t.Fatal(err)
	}

	cfg := mirror.Config{
		DestinationRoot: dest,
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "scene", Order: 0}},
	}
	result, err := newEngine().Mirror(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if result.Success {
		t.Fatal("success flag should be false with per-file errors")
	}
	if result.CopiedCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("result: %+v", result)
	}
	if result.Errors[0].Path != records[0].Path {
		t.Fatalf("error attributed to %q", result.Errors[0].Path)
	}
}

func TestMirrorRequiresDestinationRoot(t *testing.T) {
	_, err := newEngine().Mirror(context.Background(), mirror.Config{}, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMirrorRejectsUnknownOrganizeField(t *testing.T) {
	cfg := mirror.Config{
		DestinationRoot: t.TempDir(),
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "note", Order: 0}},
	}
	_, err := newEngine().Mirror(context.Background(), cfg, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckConflictsDryRun(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	records := sourceRecords(t, src, "PR2_Allen_Sc1_01.wav")

	cfg := mirror.Config{
		DestinationRoot: dest,
		OrganizeLevels:  []mirror.OrganizeLevel{{Field: "scene", Order: 0}},
	}
	engine := newEngine()

	conflicts, err := engine.CheckConflicts(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("CheckConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	if _, err := engine.Mirror(context.Background(), cfg, records); err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	conflicts, err = engine.CheckConflicts(context.Background(), cfg, records)
	if err != nil {
		t.Fatalf("CheckConflicts: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v", conflicts)
	}
	// Dry run must not copy anything or consume the conflict.
	again, err := engine.CheckConflicts(context.Background(), cfg, records)
	if err != nil || len(again) != 1 {
		t.Fatalf("second dry run: %v, %v", again, err)
	}
}

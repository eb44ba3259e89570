package api_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slated/internal/api"
	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/mirror"
	"slated/internal/services"
	"slated/internal/testsupport"
)

const ixmlFixture = `<?xml version="1.0" encoding="UTF-8"?>
<BWFXML><PROJECT>PR2</PROJECT><SCENE>12</SCENE><TAKE>03</TAKE></BWFXML>`

func newService(t *testing.T) *api.Service {
	t.Helper()
	return api.NewService(logging.NewNop(), false)
}

func TestReadMetadata(t *testing.T) {
	svc := newService(t)
	path := filepath.Join(t.TempDir(), "PR2_Allen_Sc12_03.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{IXML: ixmlFixture})

	record, err := svc.ReadMetadata(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if record.Show != "PR2" || record.Scene != "12" || record.Take != "03" {
		t.Fatalf("record = %+v", record)
	}
}

func TestWriteMetadataRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{IXML: ixmlFixture})

	record, err := svc.ReadMetadata(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	record.Scene = "99"
	if err := svc.WriteMetadata(ctx, path, record); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	again, err := svc.ReadMetadata(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Scene != "99" || again.Take != "03" {
		t.Fatalf("after write = %+v", again)
	}
}

func TestWriteMetadataNilRecord(t *testing.T) {
	svc := newService(t)
	err := svc.WriteMetadata(context.Background(), "/tmp/a.wav", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestReadBatchIsolatesFailures(t *testing.T) {
	svc := newService(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	testsupport.WriteWAV(t, good, testsupport.WAVSpec{IXML: ixmlFixture})
	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not a wave"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := svc.ReadBatch(context.Background(), []string{good, bad, filepath.Join(dir, "gone.wav")}, 2)
	if len(result.Records) != 1 || result.Records[0].Path != good {
		t.Fatalf("records = %+v", result.Records)
	}
	if len(result.Issues) != 2 {
		t.Fatalf("issues = %+v", result.Issues)
	}
	kinds := map[string]string{}
	for _, issue := range result.Issues {
		kinds[filepath.Base(issue.Path)] = issue.Kind
	}
	if kinds["bad.wav"] != "unsupported_format" || kinds["gone.wav"] != "not_found" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestScanDirectoryFindsNestedWAVs(t *testing.T) {
	svc := newService(t)
	dir := t.TempDir()
	testsupport.WriteWAV(t, filepath.Join(dir, "a.wav"), testsupport.WAVSpec{IXML: ixmlFixture})
	testsupport.WriteWAV(t, filepath.Join(dir, "sub", "b.WAV"), testsupport.WAVSpec{IXML: ixmlFixture})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ScanDirectory(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(result.Records) != 2 || len(result.Issues) != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestMirrorFilesAndConflicts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "PR2_Allen_Sc12_03.wav")
	testsupport.WriteWAV(t, src, testsupport.WAVSpec{IXML: ixmlFixture})

	record, err := svc.ReadMetadata(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	cfg := mirror.Config{
		DestinationRoot: filepath.Join(t.TempDir(), "mirror"),
		OrganizeLevels: []mirror.OrganizeLevel{
			{Field: "show", Order: 0},
			{Field: "scene", Order: 1},
		},
		Concurrency: 2,
	}
	records := []*metadata.Record{record}

	result, err := svc.MirrorFiles(ctx, cfg, records)
	if err != nil {
		t.Fatalf("MirrorFiles: %v", err)
	}
	if !result.Success || result.CopiedCount != 1 {
		t.Fatalf("result = %+v", result)
	}

	conflicts, err := svc.CheckFileConflicts(ctx, cfg, records)
	if err != nil {
		t.Fatalf("CheckFileConflicts: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v", conflicts)
	}
}

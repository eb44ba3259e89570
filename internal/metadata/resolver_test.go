package metadata_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"slated/internal/logging"
	"slated/internal/metadata"
	"slated/internal/services"
	"slated/internal/testsupport"
	"slated/internal/wavio"
)

func resolve(t *testing.T, path string) *metadata.Record {
	t.Helper()
	record, err := metadata.NewResolver(logging.NewNop()).Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", path, err)
	}
	return record
}

func TestResolveStructuredMetadataWinsOverFilename(t *testing.T) {
	// Filename implies scene 3; structured metadata says 7 and must win.
	path := filepath.Join(t.TempDir(), "PR2_Allen_Sc3_01.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		IXML: "<BWFXML><SCENE>7</SCENE></BWFXML>",
	})

	record := resolve(t, path)
	if record.Scene != "7" {
		t.Fatalf("scene = %q, want 7", record.Scene)
	}
	if record.Show != "PR2" || record.Take != "01" {
		t.Fatalf("filename fallback broken: %+v", record)
	}
}

func TestResolveFilenameFallbackChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PR2_Allen_Sc5.14D_01.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{})

	record := resolve(t, path)
	if record.Show != "PR2" || record.Category != "Allen" || record.Scene != "5.14" ||
		record.Slate != "D" || record.Take != "01" || record.Subcategory != "5" {
		t.Fatalf("fallback chain: %+v", record)
	}
}

func TestResolveOriginatorSeedsShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		Bext: &wavio.Bext{Originator: "PR9"},
	})

	record := resolve(t, path)
	if record.Show != "PR9" {
		t.Fatalf("show = %q, want PR9", record.Show)
	}
}

func TestResolvePatternRecoveryFromDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceover.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		Bext: &wavio.Bext{Description: "SC07_TK03 voiceover"},
	})

	record := resolve(t, path)
	if record.Scene != "07" || record.Take != "03" {
		t.Fatalf("scene/take = %q/%q, want 07/03", record.Scene, record.Take)
	}
	// The description also feeds the note via the normal chain.
	if record.Note != "SC07_TK03 voiceover" {
		t.Fatalf("note = %q", record.Note)
	}
}

func TestResolvePatternRecoveryNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		IXML: "<BWFXML><SCENE>12</SCENE></BWFXML>",
		Bext: &wavio.Bext{Description: "SCNE 99 TAKE 4 pickup"},
	})

	record := resolve(t, path)
	if record.Scene != "12" {
		t.Fatalf("recovery overwrote scene: %q", record.Scene)
	}
	if record.Take != "4" {
		t.Fatalf("take = %q, want 4", record.Take)
	}
}

func TestResolveFlagsCoerceToBoolStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wild.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		IXML: "<BWFXML><WILD_TRACK>TRUE</WILD_TRACK></BWFXML>",
	})

	record := resolve(t, path)
	if record.Wildtrack != "true" || record.Circled != "false" {
		t.Fatalf("flags = %q/%q", record.Wildtrack, record.Circled)
	}
}

func TestResolveCorruptChunkIsAbsorbed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PR2_Allen_Sc3_01.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		IXML: "<BWFXML><SCENE>7", // unterminated
	})

	record := resolve(t, path)
	// The corrupt chunk contributes nothing; the filename still resolves.
	if record.Scene != "3" {
		t.Fatalf("scene = %q, want filename fallback 3", record.Scene)
	}
	if record.Info.SampleRate != 48000 {
		t.Fatalf("file info blocked by corrupt chunk: %+v", record.Info)
	}
}

func TestResolveFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testsupport.WAVSpec{
		SampleRate: 44100, Channels: 2, Bits: 24, Seconds: 2,
	})

	record := resolve(t, path)
	info := record.Info
	if info.SampleRate != 44100 || info.Channels != 2 || info.BitDepth != 24 {
		t.Fatalf("info = %+v", info)
	}
	if info.DurationSeconds != 2.0 {
		t.Fatalf("duration = %v", info.DurationSeconds)
	}
	if info.Format != "PCM" || info.SizeBytes == 0 || info.ModifiedAt.IsZero() {
		t.Fatalf("info = %+v", info)
	}
}

func TestResolveRejectsWrongExtension(t *testing.T) {
	_, err := metadata.NewResolver(logging.NewNop()).Resolve(context.Background(), "clip.mp3")
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := metadata.NewResolver(logging.NewNop()).Resolve(context.Background(), filepath.Join(t.TempDir(), "gone.wav"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package mirror_test

import (
	"path/filepath"
	"strings"
	"testing"

	"slated/internal/metadata"
	"slated/internal/mirror"
)

func TestSanitizeSegmentReservedCharacters(t *testing.T) {
	if got := mirror.SanitizeSegment(`A/B:C*D`); got != "A_B_C_D" {
		t.Fatalf("sanitized = %q, want A_B_C_D", got)
	}
}

func TestSanitizeSegmentCollapsesWhitespace(t *testing.T) {
	if got := mirror.SanitizeSegment("scene  one\ttwo"); got != "scene_one_two" {
		t.Fatalf("sanitized = %q", got)
	}
}

func TestSanitizeSegmentTruncatesTo100(t *testing.T) {
	long := strings.Repeat("x", 250)
	if got := mirror.SanitizeSegment(long); len(got) != 100 {
		t.Fatalf("length = %d, want 100", len(got))
	}
}

func TestBuildDestinationBlankFieldUsesMisc(t *testing.T) {
	record := &metadata.Record{Show: "PR2", Scene: "", Filename: "x.wav"}
	levels := []mirror.OrganizeLevel{{Field: "show", Order: 0}, {Field: "scene", Order: 1}}
	got := mirror.BuildDestination("/dest", levels, record)
	want := filepath.Join("/dest", "PR2", "Misc", "x.wav")
	if got != want {
		t.Fatalf("destination = %q, want %q", got, want)
	}
}

func TestBuildDestinationHonorsLevelOrder(t *testing.T) {
	record := &metadata.Record{Show: "PR2", Scene: "7", Filename: "x.wav"}
	// Declared out of order; the explicit order integers win.
	levels := []mirror.OrganizeLevel{{Field: "scene", Order: 5}, {Field: "show", Order: 1}}
	got := mirror.BuildDestination("/dest", levels, record)
	want := filepath.Join("/dest", "PR2", "7", "x.wav")
	if got != want {
		t.Fatalf("destination = %q, want %q", got, want)
	}
}

func TestBuildDestinationKeepsFilenameUnmodified(t *testing.T) {
	record := &metadata.Record{Show: "a b", Filename: "My Take 01.wav"}
	got := mirror.BuildDestination("/dest", []mirror.OrganizeLevel{{Field: "show"}}, record)
	if filepath.Base(got) != "My Take 01.wav" {
		t.Fatalf("filename was altered: %q", got)
	}
	if !strings.Contains(got, "a_b") {
		t.Fatalf("folder not sanitized: %q", got)
	}
}

package mirror

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"slated/internal/metadata"
)

// maxSegmentLen caps a sanitized folder name.
const maxSegmentLen = 100

// MiscSegment names the folder for records whose organize field is blank.
const MiscSegment = "Misc"

// OrganizeLevel is one folder level of the destination tree. Levels apply in
// ascending Order.
type OrganizeLevel struct {
	Field string `json:"field"`
	Order int    `json:"order"`
}

// SortLevels returns the levels in application order without mutating the
// input.
func SortLevels(levels []OrganizeLevel) []OrganizeLevel {
	sorted := append([]OrganizeLevel(nil), levels...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}

// BuildDestination computes the mirrored path for a record: one sanitized
// segment per organize level, then the unmodified filename.
func BuildDestination(root string, levels []OrganizeLevel, record *metadata.Record) string {
	parts := make([]string, 0, len(levels)+2)
	parts = append(parts, root)
	for _, level := range SortLevels(levels) {
		parts = append(parts, segmentFor(record, level.Field))
	}
	parts = append(parts, record.Filename)
	return filepath.Join(parts...)
}

func segmentFor(record *metadata.Record, field string) string {
	value := strings.TrimSpace(record.FieldValue(field))
	if value == "" {
		return MiscSegment
	}
	sanitized := SanitizeSegment(value)
	if sanitized == "" {
		return MiscSegment
	}
	return sanitized
}

// SanitizeSegment makes a metadata value safe as a single path segment:
// filesystem-reserved characters become underscores, whitespace runs collapse
// to one underscore, and the result is capped at 100 characters.
func SanitizeSegment(value string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteRune('_')
			}
			inSpace = true
		case isReserved(r):
			b.WriteRune('_')
			inSpace = false
		default:
			b.WriteRune(r)
			inSpace = false
		}
	}
	runes := []rune(b.String())
	if len(runes) > maxSegmentLen {
		runes = runes[:maxSegmentLen]
	}
	return string(runes)
}

func isReserved(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return false
}

package metadata

import (
	"time"

	"slated/internal/ixml"
	"slated/internal/wavio"
)

// FileInfo carries read-only technical properties derived at read time.
type FileInfo struct {
	SampleRate      int       `json:"sample_rate"`
	BitDepth        int       `json:"bit_depth"`
	Channels        int       `json:"channels"`
	DurationSeconds float64   `json:"duration_seconds"`
	SizeBytes       int64     `json:"size_bytes"`
	ModifiedAt      time.Time `json:"modified_at"`
	Format          string    `json:"format"`
}

// Record is the canonical, precedence-resolved view of one file's metadata.
//
// Structural fields are opaque strings; scene and take are never parsed as
// numbers so leading zeros and decimal scene numbers survive. The wildtrack
// and circled flags are represented as the strings "true"/"false" for caller
// compatibility. Bext and IXML are passthrough substructures: write-back
// merges edited fields into them without discarding anything else they carry.
type Record struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`

	Show        string `json:"show"`
	Scene       string `json:"scene"`
	Take        string `json:"take"`
	Slate       string `json:"slate"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Note        string `json:"note"`
	Wildtrack   string `json:"wildtrack"`
	Circled     string `json:"circled"`

	Bext *wavio.Bext    `json:"-"`
	IXML *ixml.Document `json:"-"`

	Info FileInfo `json:"info"`
}

// FieldValue returns a structural field by its organize-level name. Unknown
// names yield an empty string.
func (r *Record) FieldValue(field string) string {
	switch field {
	case "show":
		return r.Show
	case "scene":
		return r.Scene
	case "take":
		return r.Take
	case "slate":
		return r.Slate
	case "category":
		return r.Category
	case "subcategory":
		return r.Subcategory
	case "note":
		return r.Note
	default:
		return ""
	}
}

// SetFieldValue assigns a structural field by name. Unknown names are ignored
// and reported as false.
func (r *Record) SetFieldValue(field, value string) bool {
	switch field {
	case "show":
		r.Show = value
	case "scene":
		r.Scene = value
	case "take":
		r.Take = value
	case "slate":
		r.Slate = value
	case "category":
		r.Category = value
	case "subcategory":
		r.Subcategory = value
	case "note":
		r.Note = value
	case "wildtrack":
		r.Wildtrack = boolString(ixml.TrueString(value) || value == "true")
	case "circled":
		r.Circled = boolString(ixml.TrueString(value) || value == "true")
	default:
		return false
	}
	return true
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

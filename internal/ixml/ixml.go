package ixml

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Element is one unrecognized iXML node, carried through serialization with
// its attributes and inner XML untouched.
type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// Document is the structured-metadata tree. Known production fields are typed;
// everything else lands in Extra and survives write-back unmodified.
type Document struct {
	Project     string
	Scene       string
	Take        string
	Slate       string
	Category    string
	Subcategory string
	Note        string
	WildTrack   string
	Circled     string

	Extra []Element
}

type wireDocument struct {
	XMLName     xml.Name  `xml:"BWFXML"`
	Project     *string   `xml:"PROJECT"`
	Scene       *string   `xml:"SCENE"`
	Take        *string   `xml:"TAKE"`
	Slate       *string   `xml:"SLATE"`
	Category    *string   `xml:"CATEGORY"`
	Subcategory *string   `xml:"SUBCATEGORY"`
	Note        *string   `xml:"NOTE"`
	WildTrack   *string   `xml:"WILD_TRACK"`
	Circled     *string   `xml:"CIRCLED"`
	Extra       []Element `xml:",any"`
}

// Parse decodes a raw structured-metadata string. An empty input yields an
// empty document; malformed XML is an error the caller decides how to absorb.
func Parse(raw string) (*Document, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &Document{}, nil
	}
	var wire wireDocument
	if err := xml.Unmarshal([]byte(trimmed), &wire); err != nil {
		return nil, fmt.Errorf("parse structured metadata: %w", err)
	}
	return &Document{
		Project:     deref(wire.Project),
		Scene:       deref(wire.Scene),
		Take:        deref(wire.Take),
		Slate:       deref(wire.Slate),
		Category:    deref(wire.Category),
		Subcategory: deref(wire.Subcategory),
		Note:        deref(wire.Note),
		WildTrack:   deref(wire.WildTrack),
		Circled:     deref(wire.Circled),
		Extra:       wire.Extra,
	}, nil
}

// Serialize renders the document to its wire string form. Empty known fields
// are omitted; unrecognized elements are emitted verbatim.
func Serialize(doc *Document) (string, error) {
	if doc == nil {
		doc = &Document{}
	}
	wire := wireDocument{
		Project:     ref(doc.Project),
		Scene:       ref(doc.Scene),
		Take:        ref(doc.Take),
		Slate:       ref(doc.Slate),
		Category:    ref(doc.Category),
		Subcategory: ref(doc.Subcategory),
		Note:        ref(doc.Note),
		WildTrack:   ref(doc.WildTrack),
		Circled:     ref(doc.Circled),
		Extra:       doc.Extra,
	}
	encoded, err := xml.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("serialize structured metadata: %w", err)
	}
	return xml.Header + string(encoded), nil
}

// TrueString reports whether a raw iXML flag value means true. Field
// recorders write TRUE/FALSE but YES and 1 appear in the wild.
func TrueString(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRUE", "YES", "Y", "1":
		return true
	default:
		return false
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func ref(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

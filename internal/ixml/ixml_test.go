package ixml_test

import (
	"strings"
	"testing"

	"slated/internal/ixml"
)

func TestParseEmptyYieldsEmptyDocument(t *testing.T) {
	doc, err := ixml.Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Project != "" || len(doc.Extra) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestParseKnownFields(t *testing.T) {
	raw := `<BWFXML>
		<PROJECT>PR2</PROJECT>
		<SCENE>5.14</SCENE>
		<TAKE>01</TAKE>
		<WILD_TRACK>TRUE</WILD_TRACK>
	</BWFXML>`
	doc, err := ixml.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Project != "PR2" || doc.Scene != "5.14" || doc.Take != "01" {
		t.Fatalf("fields = %+v", doc)
	}
	if !ixml.TrueString(doc.WildTrack) {
		t.Fatalf("wild track = %q", doc.WildTrack)
	}
}

func TestParseRejectsMalformedXML(t *testing.T) {
	if _, err := ixml.Parse("<BWFXML><SCENE>7"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestUnrecognizedElementsSurviveRoundTrip(t *testing.T) {
	raw := `<BWFXML><SCENE>7</SCENE><SPEED><MASTER_SPEED>25/1</MASTER_SPEED></SPEED><UBITS>00000000</UBITS></BWFXML>`
	doc, err := ixml.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Extra) != 2 {
		t.Fatalf("extra count = %d, want 2", len(doc.Extra))
	}

	doc.Scene = "8"
	out, err := ixml.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, fragment := range []string{"<SCENE>8</SCENE>", "<MASTER_SPEED>25/1</MASTER_SPEED>", "<UBITS>00000000</UBITS>"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("serialized output missing %q:\n%s", fragment, out)
		}
	}

	reparsed, err := ixml.Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if reparsed.Scene != "8" || len(reparsed.Extra) != 2 {
		t.Fatalf("round trip lost data: %+v", reparsed)
	}
}

func TestSerializeOmitsEmptyFields(t *testing.T) {
	out, err := ixml.Serialize(&ixml.Document{Scene: "12"})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(out, "<PROJECT>") {
		t.Fatalf("empty project should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "<SCENE>12</SCENE>") {
		t.Fatalf("scene missing:\n%s", out)
	}
}

func TestTrueString(t *testing.T) {
	for _, v := range []string{"TRUE", "true", " yes ", "1", "Y"} {
		if !ixml.TrueString(v) {
			t.Errorf("TrueString(%q) = false", v)
		}
	}
	for _, v := range []string{"", "FALSE", "0", "no"} {
		if ixml.TrueString(v) {
			t.Errorf("TrueString(%q) = true", v)
		}
	}
}

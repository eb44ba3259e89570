package filename

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Match is the partial record a filename yields. Empty fields carry no
// information; the resolver treats them as absent.
type Match struct {
	Show        string
	Category    string
	Scene       string
	Slate       string
	Take        string
	Subcategory string
}

// strictPattern matches <show>_<category>_Sc<scene><slate?>_<take>.wav.
// Scene is digits with an optional single decimal point; slate is one trailing
// uppercase letter appended to the scene digits; take is digits. The grammar
// is case-insensitive except for the slate letter.
var strictPattern = regexp.MustCompile(`(?i)^([^_]+)_([^_]+)_sc(\d+(?:\.\d+)?)((?-i:[A-Z])?)_(\d+)\.wav$`)

var allDigits = regexp.MustCompile(`^\d+$`)

// Parse extracts structural fields from a bare filename. It returns nil when
// neither strategy matches; it never fails.
func Parse(name string) *Match {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if m := parseStrict(name); m != nil {
		return m
	}
	return parseTokens(name)
}

func parseStrict(name string) *Match {
	groups := strictPattern.FindStringSubmatch(name)
	if groups == nil {
		return nil
	}
	return &Match{
		Show:        groups[1],
		Category:    groups[2],
		Scene:       groups[3],
		Slate:       groups[4],
		Take:        groups[5],
		Subcategory: subcategoryOf(groups[3]),
	}
}

func parseTokens(name string) *Match {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	tokens := strings.Split(stem, "_")
	if len(tokens) < 2 {
		return nil
	}

	m := &Match{Show: tokens[0], Category: tokens[1]}
	rest := tokens[2:]
	if len(tokens) >= 3 && allDigits.MatchString(tokens[len(tokens)-1]) {
		m.Take = tokens[len(tokens)-1]
		rest = tokens[2 : len(tokens)-1]
	}
	m.Scene = strings.Join(rest, "_")
	m.Subcategory = subcategoryOf(m.Scene)
	return m
}

func subcategoryOf(scene string) string {
	if scene == "" {
		return ""
	}
	if idx := strings.Index(scene, "."); idx >= 0 {
		return scene[:idx]
	}
	return scene
}

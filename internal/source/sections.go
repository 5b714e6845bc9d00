package source

import (
	"regexp"
	"strings"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
)

// headingNumbering strips "I.", "2)", "III -", "A." style prefixes from heading lines
var headingNumbering = regexp.MustCompile(`^(?:[ivxlc]+|\d+|[a-z])\s*[.)\-–:]\s*`)

// PreambleID names the text before the first recognized heading
const PreambleID = "preamble"

// SplitSections finds heading lines (HECHOS, FUNDAMENTOS DE DERECHO, PETITORIO, ...)
// and returns one span per section, in order. It returns nil when the text has no
// recognizable heading, meaning the whole document is one unlabeled span.
func SplitSections(text string) []model.Span {
	type heading struct {
		id    string
		start int
	}
	var headings []heading

	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if id, ok := HeadingID(line); ok {
			headings = append(headings, heading{id: id, start: offset})
		}
		offset += len(line)
	}

	if len(headings) == 0 {
		return nil
	}

	var spans []model.Span
	if strings.TrimSpace(text[:headings[0].start]) != "" {
		spans = append(spans, model.Span{ID: PreambleID, Start: 0, End: headings[0].start})
	}
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		spans = append(spans, model.Span{ID: h.id, Start: h.start, End: end})
	}
	return spans
}

// HeadingID resolves a heading line to a normalized section id
func HeadingID(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 60 {
		return "", false
	}

	folded := lexicon.Fold(trimmed)
	folded = headingNumbering.ReplaceAllString(folded, "")
	folded = strings.TrimRight(folded, ":.- ")
	folded = strings.Join(strings.Fields(folded), " ")

	if id, ok := lexicon.SectionAliases[folded]; ok {
		return id, true
	}
	return "", false
}

// NormalizeSectionID maps upstream span ids onto facts, grounds, petition where possible
func NormalizeSectionID(id string) string {
	folded := strings.Join(strings.Fields(lexicon.Fold(id)), " ")
	if alias, ok := lexicon.SectionAliases[folded]; ok {
		return alias
	}
	return folded
}

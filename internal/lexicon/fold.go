// Package lexicon holds the fixed vocabulary tables every engine matches against.
//
// All tables match folded text: lowercase, diacritics removed. Fold is applied to
// a sentence once and the result is tested against as many tables as needed.
package lexicon

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks ("Notificó" -> "notifico").
// Byte offsets in the result do not map back onto s.
func Fold(s string) string {
	lower := strings.ToLower(s)
	// Transformers carry state, so a fresh chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return out
}

// Terms is a named vocabulary compiled into one matcher over folded text
type Terms struct {
	Name string
	re   *regexp.Regexp
}

// NewTerms compiles regex fragments into a left-word-bounded alternation.
// Fragments that must end on a word boundary carry their own trailing \b.
func NewTerms(name string, fragments ...string) *Terms {
	return &Terms{
		Name: name,
		re:   regexp.MustCompile(`\b(?:` + strings.Join(fragments, "|") + `)`),
	}
}

// Match reports whether folded contains any term
func (t *Terms) Match(folded string) bool {
	return t.re.MatchString(folded)
}

// First returns the first matching term, or "" when none matches
func (t *Terms) First(folded string) string {
	return t.re.FindString(folded)
}

// Index returns the byte range of the first match, or nil
func (t *Terms) Index(folded string) []int {
	return t.re.FindStringIndex(folded)
}

// All returns the byte ranges of every non-overlapping match
func (t *Terms) All(folded string) [][]int {
	return t.re.FindAllStringIndex(folded, -1)
}

// Count returns the number of non-overlapping matches
func (t *Terms) Count(folded string) int {
	return len(t.re.FindAllStringIndex(folded, -1))
}

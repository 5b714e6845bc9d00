package parse

import (
	"regexp"

	"github.com/ppiankov/alegato/internal/lexicon"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Negation is a negation cue found in folded text
type Negation struct {
	Cue   string
	Start int
	End   int
}

var negationCues = func() map[string]bool {
	m := make(map[string]bool, len(lexicon.NegationCues))
	for _, c := range lexicon.NegationCues {
		m[c] = true
	}
	return m
}()

// isCue reports whether the word at loc is a negation cue outside any
// exception phrase such as "sin embargo"
func isCue(folded string, loc []int, exceptions [][]int) bool {
	if !negationCues[folded[loc[0]:loc[1]]] {
		return false
	}
	for _, ex := range exceptions {
		if loc[0] >= ex[0] && loc[1] <= ex[1] {
			return false
		}
	}
	return true
}

// FindNegations lists every negation cue in folded text
func FindNegations(folded string) []Negation {
	var out []Negation
	exceptions := lexicon.NegationExceptions.All(folded)
	for _, loc := range wordPattern.FindAllStringIndex(folded, -1) {
		word := folded[loc[0]:loc[1]]
		if isCue(folded, loc, exceptions) {
			out = append(out, Negation{Cue: word, Start: loc[0], End: loc[1]})
		}
	}
	return out
}

// IsNegated reports whether the phrase at [start,end) of folded is negated:
// a cue sits within window words before start, or inside the phrase itself.
func IsNegated(folded string, start, end, window int) bool {
	words := wordPattern.FindAllStringIndex(folded, -1)
	exceptions := lexicon.NegationExceptions.All(folded)

	first := len(words)
	for i, loc := range words {
		if loc[0] >= start {
			first = i
			break
		}
	}

	from := first - window
	if from < 0 {
		from = 0
	}
	for i := from; i < len(words); i++ {
		loc := words[i]
		if loc[0] >= end {
			break
		}
		if isCue(folded, loc, exceptions) {
			return true
		}
	}
	return false
}

package critique

import (
	"strings"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/parse"
)

// Style codes
const (
	CodeVague         = "vague_terms"
	CodeConclusory    = "conclusory_terms"
	CodeAdjectives    = "evaluative_adjectives"
	CodeDemonstrative = "ambiguous_reference"
)

// Style thresholds
const (
	MinEvaluativeAdjectives = 3
	MinBareDemonstratives   = 2
	maxExamples             = 3
)

// CritiqueStyle reports at most one finding per style category
func CritiqueStyle(text string) []model.StyleFinding {
	folded := lexicon.Fold(text)
	out := []model.StyleFinding{}

	if m := lexicon.VagueTerms.First(folded); m != "" {
		out = append(out, model.StyleFinding{
			Code:     CodeVague,
			Label:    "Expresiones vagas que el tribunal no puede traducir en una decisión",
			Examples: []string{m},
		})
	}
	if m := lexicon.ConclusoryTerms.First(folded); m != "" {
		out = append(out, model.StyleFinding{
			Code:     CodeConclusory,
			Label:    "Afirmaciones conclusivas en lugar de demostración",
			Examples: []string{m},
		})
	}

	if locs := lexicon.EvaluativeAdjectives.All(folded); len(locs) >= MinEvaluativeAdjectives {
		out = append(out, model.StyleFinding{
			Code:     CodeAdjectives,
			Label:    "Exceso de adjetivos valorativos",
			Examples: examplesOf(folded, locs),
		})
	}

	var openings []string
	for _, s := range parse.SplitSentences(text, 0) {
		f := strings.TrimLeft(lexicon.Fold(s.Text), " \"'«(-")
		if m := lexicon.BareDemonstrative.FindString(f); m != "" {
			openings = append(openings, m)
		}
	}
	if len(openings) >= MinBareDemonstratives {
		if len(openings) > maxExamples {
			openings = openings[:maxExamples]
		}
		out = append(out, model.StyleFinding{
			Code:     CodeDemonstrative,
			Label:    "Oraciones que comienzan con referencias ambiguas",
			Examples: openings,
		})
	}

	return out
}

func examplesOf(folded string, locs [][]int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, loc := range locs {
		m := folded[loc[0]:loc[1]]
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == maxExamples {
			break
		}
	}
	return out
}

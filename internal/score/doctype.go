package score

import (
	"strings"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
)

// MinClassificationScore is the keyword score the top candidate needs to be chosen
const MinClassificationScore = 4

// Doc-type provenance recorded in ScoreMeta
const (
	DocTypeExplicit   = "explicit"
	DocTypeClassified = "classified"
	DocTypeDefault    = "default"
)

// DocTypeResolution is the outcome of doc-type resolution
type DocTypeResolution struct {
	DocType       model.DocType
	Source        string
	Confidence    float64
	KeywordScores map[model.DocType]int
}

// NormalizeDocType maps an explicit doc type through the alias table. Unknown
// values resolve to "".
func NormalizeDocType(explicit string) model.DocType {
	key := strings.Join(strings.Fields(lexicon.Fold(explicit)), " ")
	if key == "" {
		return ""
	}
	return model.DocType(lexicon.DocTypeAliases[key])
}

// ResolveDocType honours a recognized explicit doc type; otherwise (including
// an explicit "default") it classifies the folded text by weighted keywords.
func ResolveDocType(explicit, folded string) DocTypeResolution {
	if dt := NormalizeDocType(explicit); dt != "" && dt != model.DocDefault {
		return DocTypeResolution{DocType: dt, Source: DocTypeExplicit, Confidence: 1}
	}

	scores := KeywordScores(folded)

	var top, second int
	var best model.DocType
	for _, c := range lexicon.DocTypeCandidates {
		s := scores[model.DocType(c)]
		switch {
		case s > top:
			second = top
			top = s
			best = model.DocType(c)
		case s > second:
			second = s
		}
	}

	if top < MinClassificationScore {
		return DocTypeResolution{DocType: model.DocDefault, Source: DocTypeDefault, KeywordScores: scores}
	}
	return DocTypeResolution{
		DocType:       best,
		Source:        DocTypeClassified,
		Confidence:    model.Round(float64(top-second)/float64(top), 3),
		KeywordScores: scores,
	}
}

// KeywordScores sums weight × hits per candidate doc type
func KeywordScores(folded string) map[model.DocType]int {
	scores := make(map[model.DocType]int, len(lexicon.DocTypeCandidates))
	for _, c := range lexicon.DocTypeCandidates {
		total := 0
		for _, kw := range lexicon.DocTypeKeywords[c] {
			total += kw.Weight * kw.Terms.Count(folded)
		}
		scores[model.DocType(c)] = total
	}
	return scores
}

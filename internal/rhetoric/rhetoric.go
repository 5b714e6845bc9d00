// Package rhetoric measures structural readability: sentence rhythm, paragraph
// structure and connector usage.
package rhetoric

import (
	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/parse"
)

// Thresholds
const (
	LongSentenceWords  = 40
	LongParagraphWords = 180

	MaxLongSentenceRatio  = 0.35
	MaxLongParagraphRatio = 0.30
	MinConnectorDensity   = 0.15
)

// Score weights
const (
	rhythmWeight    = 0.4
	structureWeight = 0.3
	connectorWeight = 0.3
)

// Analyzer computes the rhetoric report
type Analyzer struct{}

// NewAnalyzer creates a rhetoric analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes readability metrics for text. A text without sentences
// yields a zeroed summary and no findings.
func (a *Analyzer) Analyze(text string) model.RhetoricReport {
	sentences := parse.SplitSentences(text, 0)
	if len(sentences) == 0 {
		return model.RhetoricReport{Findings: []model.RhetoricFinding{}}
	}
	paragraphs := parse.SplitParagraphs(text)

	longSentences := 0
	for _, s := range sentences {
		if parse.WordCount(s.Text) > LongSentenceWords {
			longSentences++
		}
	}
	longParagraphs := 0
	for _, p := range paragraphs {
		if parse.WordCount(p.Text) > LongParagraphWords {
			longParagraphs++
		}
	}

	ls := float64(longSentences) / float64(len(sentences))
	lp := 0.0
	if len(paragraphs) > 0 {
		lp = float64(longParagraphs) / float64(len(paragraphs))
	}
	cd := float64(lexicon.Connectors.Count(lexicon.Fold(text))) / float64(len(sentences))

	score := 100 * model.Clamp01(rhythmWeight*(1-ls)+structureWeight*(1-lp)+connectorWeight*cd)

	report := model.RhetoricReport{
		Findings: []model.RhetoricFinding{},
		Summary: model.RhetoricSummary{
			Score:              model.Round(score, 1),
			RhythmIndex:        model.Round(100*(1-ls), 1),
			ConnectorDensity:   model.Round(cd, 3),
			StructureIndex:     model.Round(100*(1-lp), 1),
			LongSentenceRatio:  model.Round(ls, 3),
			LongParagraphRatio: model.Round(lp, 3),
			Sentences:          len(sentences),
			Paragraphs:         len(paragraphs),
		},
	}

	if ls > MaxLongSentenceRatio {
		report.Findings = append(report.Findings, model.RhetoricFinding{
			Code:     "long_sentences",
			Label:    "Demasiadas oraciones extensas; divídalas para facilitar la lectura",
			Severity: model.SeverityMedium,
			Value:    model.Round(ls, 3),
			Limit:    MaxLongSentenceRatio,
		})
	}
	if lp > MaxLongParagraphRatio {
		report.Findings = append(report.Findings, model.RhetoricFinding{
			Code:     "long_paragraphs",
			Label:    "Párrafos demasiado largos; organice una idea por párrafo",
			Severity: model.SeverityLow,
			Value:    model.Round(lp, 3),
			Limit:    MaxLongParagraphRatio,
		})
	}
	if cd < MinConnectorDensity {
		report.Findings = append(report.Findings, model.RhetoricFinding{
			Code:     "low_connector_density",
			Label:    "Pocos conectores; explicite la relación lógica entre las ideas",
			Severity: model.SeverityLow,
			Value:    model.Round(cd, 3),
			Limit:    MinConnectorDensity,
		})
	}

	return report
}

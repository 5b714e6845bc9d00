// Package coherence checks that facts, grounds and petition form one argumentative chain.
package coherence

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/parse"
	"github.com/ppiankov/alegato/internal/source"
)

// Normalized section ids the engine reasons about
const (
	SectionFacts    = "facts"
	SectionGrounds  = "grounds"
	SectionPetition = "petition"
)

// RiskWeights are the per-severity points that feed the coherence risk index
var RiskWeights = map[model.Severity]int{
	model.SeverityCritical: 28,
	model.SeverityHigh:     18,
	model.SeverityMedium:   10,
	model.SeverityLow:      4,
}

// Detection parameters
const (
	SupportLookback     = 3   // preceding sentences searched for support
	FactsAnchorMinChars = 200 // a facts section this long counts as anchored

	InferentialGapConfidence   = 0.7
	ThesisDisconnectConfidence = 0.75
	NormativeConfidence        = 0.65
	FactValueConfidence        = 0.55

	maxEvidenceText = 240
)

type section struct {
	id        string
	span      model.Span
	text      string
	folded    string
	sentences []parse.Sentence
}

// Engine evaluates semantic coherence
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a coherence engine
func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logging.OrDefault(logger)}
}

// Analyze runs every coherence check over text. Spans are normalized to
// facts, grounds and petition; without spans the whole text is one section.
func (e *Engine) Analyze(text string, spans []model.Span) model.CoherenceReport {
	sections := buildSections(text, spans)

	var findings []model.CoherenceFinding
	findings = append(findings, inferentialGaps(sections)...)
	findings = append(findings, thesisDisconnect(sections)...)
	findings = append(findings, normativeMisalignment(sections)...)
	findings = append(findings, factValueMix(text, sections)...)

	report := BuildReport(findings)
	e.logger.Debug("coherence analysis done",
		logging.Int("sections", len(sections)),
		logging.Int("findings", report.Summary.Total),
	)
	return report
}

func buildSections(text string, spans []model.Span) []section {
	var out []section
	for _, span := range parse.ResolveSpans(text, spans) {
		body := text[span.Start:span.End]
		out = append(out, section{
			id:        source.NormalizeSectionID(span.ID),
			span:      span,
			text:      body,
			folded:    lexicon.Fold(body),
			sentences: parse.SplitSentences(body, span.Start),
		})
	}
	return out
}

func conclusionLike(folded string) bool {
	return lexicon.LogicalConnectors.Match(folded) || lexicon.DecisionalVerbs.Match(folded)
}

// inferentialGaps flags conclusions with no support in the sentence or the
// SupportLookback sentences before it. Petition sections are skipped.
func inferentialGaps(sections []section) []model.CoherenceFinding {
	var out []model.CoherenceFinding
	for _, sec := range sections {
		if sec.id == SectionPetition {
			continue
		}
		folded := make([]string, len(sec.sentences))
		for i, s := range sec.sentences {
			folded[i] = lexicon.Fold(s.Text)
		}
		for i, s := range sec.sentences {
			if !conclusionLike(folded[i]) {
				continue
			}
			supported := false
			for j := i; j >= 0 && j >= i-SupportLookback; j-- {
				if lexicon.Support.Match(folded[j]) {
					supported = true
					break
				}
			}
			if supported {
				continue
			}
			out = append(out, newFinding(model.CoherenceInferentialGap, sec.id, s.Start,
				model.SeverityHigh, InferentialGapConfidence, evidenceOf(sec.id, s)))
		}
	}
	return out
}

// thesisDisconnect checks that a petition rests on anchored facts and grounds
func thesisDisconnect(sections []section) []model.CoherenceFinding {
	var petition *parse.Sentence
	var petitionSection string
	var facts, grounds []section

	for _, sec := range sections {
		switch sec.id {
		case SectionFacts:
			facts = append(facts, sec)
		case SectionGrounds:
			grounds = append(grounds, sec)
		case SectionPetition:
			if petition != nil {
				continue
			}
			for i, s := range sec.sentences {
				if conclusionLike(lexicon.Fold(s.Text)) {
					petition = &sec.sentences[i]
					petitionSection = sec.id
					break
				}
			}
		}
	}
	if petition == nil {
		return nil
	}

	factsAnchored := false
	for _, sec := range facts {
		if lexicon.Support.Match(sec.folded) || len(strings.TrimSpace(sec.text)) > FactsAnchorMinChars {
			factsAnchored = true
			break
		}
	}
	groundsAnchored := false
	for _, sec := range grounds {
		if lexicon.NormCitation.Match(sec.folded) || lexicon.Application.Match(sec.folded) {
			groundsAnchored = true
			break
		}
	}

	if factsAnchored && groundsAnchored {
		return nil
	}
	severity := model.SeverityHigh
	if !factsAnchored && !groundsAnchored {
		severity = model.SeverityCritical
	}

	return []model.CoherenceFinding{newFinding(model.CoherenceThesisDisconnect, petitionSection, petition.Start,
		severity, ThesisDisconnectConfidence, evidenceOf(petitionSection, *petition))}
}

// normativeMisalignment flags grounds that cite a norm but never apply it to the case
func normativeMisalignment(sections []section) []model.CoherenceFinding {
	var out []model.CoherenceFinding
	for _, sec := range sections {
		if sec.id != SectionGrounds || len(sec.sentences) == 0 {
			continue
		}
		if !lexicon.NormCitation.Match(sec.folded) || lexicon.Application.Match(sec.folded) {
			continue
		}
		anchor := sec.sentences[0]
		for _, s := range sec.sentences {
			if lexicon.NormCitation.Match(lexicon.Fold(s.Text)) {
				anchor = s
				break
			}
		}
		out = append(out, newFinding(model.CoherenceNormativeMisalignment, sec.id, sec.span.Start,
			model.SeverityMedium, NormativeConfidence, evidenceOf(sec.id, anchor)))
	}
	return out
}

// factValueMix flags evaluative sentences in the facts that lack a factual
// anchor in themselves or their immediate neighbours
func factValueMix(text string, sections []section) []model.CoherenceFinding {
	var out []model.CoherenceFinding
	for _, sec := range sections {
		if sec.id != SectionFacts {
			continue
		}
		for i, s := range sec.sentences {
			if !lexicon.ValueJudgment.Match(lexicon.Fold(s.Text)) {
				continue
			}
			anchored := false
			for j := i - 1; j <= i+1; j++ {
				if j < 0 || j >= len(sec.sentences) {
					continue
				}
				if factualAnchor(sec.sentences[j].Text) {
					anchored = true
					break
				}
			}
			if anchored {
				continue
			}
			out = append(out, newFinding(model.CoherenceFactValueMix, sec.id, s.Start,
				model.SeverityLow, FactValueConfidence, evidenceOf(sec.id, s)))
		}
	}
	return out
}

func factualAnchor(sentence string) bool {
	if _, ok := parse.FirstDate(sentence); ok {
		return true
	}
	if lexicon.CurrencyMark.MatchString(sentence) {
		return true
	}
	return lexicon.DocumentNoun.Match(lexicon.Fold(sentence))
}

func evidenceOf(sectionID string, s parse.Sentence) []model.CoherenceEvidence {
	text := s.Text
	if r := []rune(text); len(r) > maxEvidenceText {
		text = string(r[:maxEvidenceText]) + "…"
	}
	return []model.CoherenceEvidence{{Section: sectionID, Start: s.Start, End: s.End, Text: text}}
}

func newFinding(t model.CoherenceType, sectionID string, start int, sev model.Severity, confidence float64, evidence []model.CoherenceEvidence) model.CoherenceFinding {
	n := narrations[t]
	return model.CoherenceFinding{
		ID:            FindingID(t, sectionID, start),
		Type:          t,
		Severity:      sev,
		Confidence:    model.Clamp01(confidence),
		Evidence:      evidence,
		WhyItMatters:  n.why,
		FixSuggestion: n.fix,
	}
}

// FindingID is a stable hash of type, section and offset
func FindingID(t model.CoherenceType, sectionID string, start int) string {
	sum := sha256.Sum256([]byte(string(t) + "|" + sectionID + "|" + strconv.Itoa(start)))
	return "coh_" + hex.EncodeToString(sum[:8])
}

type narration struct {
	why string
	fix string
}

var narrations = map[model.CoherenceType]narration{
	model.CoherenceInferentialGap: {
		why: "La conclusión no se apoya en prueba, documento ni norma cercana; el tribunal puede considerarla una mera afirmación.",
		fix: "Indique la prueba o la norma que sostiene la conclusión inmediatamente antes de formularla.",
	},
	model.CoherenceThesisDisconnect: {
		why: "El petitorio no encuentra respaldo suficiente en los hechos o en el derecho invocado.",
		fix: "Vincule cada pedido con hechos acreditados y con la norma que lo habilita.",
	},
	model.CoherenceNormativeMisalignment: {
		why: "Se citan normas sin explicar cómo se aplican a los hechos del caso.",
		fix: "Explique de qué modo los hechos del caso encuadran en la norma citada.",
	},
	model.CoherenceFactValueMix: {
		why: "Los hechos mezclan valoraciones sin un dato objetivo que las sostenga.",
		fix: "Reserve las valoraciones para los fundamentos y ancle los hechos en fechas, documentos o montos.",
	},
}

// BuildReport dedupes findings by id, orders them by severity and computes the summary
func BuildReport(findings []model.CoherenceFinding) model.CoherenceReport {
	seen := make(map[string]bool)
	unique := make([]model.CoherenceFinding, 0, len(findings))
	for _, f := range findings {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		unique = append(unique, f)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Severity.Rank() > unique[j].Severity.Rank()
	})

	var s model.SeveritySummary
	for _, f := range unique {
		s.Add(f.Severity)
	}
	risk := 0
	for _, sev := range model.Severities {
		risk += RiskWeights[sev] * countOf(s, sev)
	}
	if risk > 100 {
		risk = 100
	}
	s.RiskIndex = risk

	return model.CoherenceReport{Findings: unique, Summary: s}
}

func countOf(s model.SeveritySummary, sev model.Severity) int {
	switch sev {
	case model.SeverityCritical:
		return s.Critical
	case model.SeverityHigh:
		return s.High
	case model.SeverityMedium:
		return s.Medium
	default:
		return s.Low
	}
}

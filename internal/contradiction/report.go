package contradiction

import (
	"sort"

	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
)

// RiskWeights are the per-severity points that feed the report risk index
var RiskWeights = map[model.Severity]int{
	model.SeverityCritical: 30,
	model.SeverityHigh:     18,
	model.SeverityMedium:   10,
	model.SeverityLow:      4,
}

// maxRefText bounds the sentence text copied into a report entry
const maxRefText = 240

// Classify maps a raw finding to a severity bucket
func Classify(f model.ContradictionFinding) model.Severity {
	switch f.Type {
	case model.ContradictionDirect:
		if f.Confidence >= 0.8 {
			return model.SeverityHigh
		}
	case model.ContradictionTemporal:
		if f.Confidence >= 0.8 {
			return model.SeverityHigh
		}
	case model.ContradictionNumeric:
		return model.SeverityMedium
	case model.ContradictionRole:
		return model.SeverityHigh
	}
	return model.SeverityLow
}

type narration struct {
	why string
	fix string
}

var narrations = map[model.ContradictionType]narration{
	model.ContradictionDirect: {
		why: "El escrito afirma y niega el mismo hecho; el tribunal puede tener por no acreditado ninguno de los dos relatos.",
		fix: "Unifique la versión del hecho y elimine la afirmación que no pueda sostener con prueba.",
	},
	model.ContradictionTemporal: {
		why: "El mismo hecho aparece con fechas distintas, lo que debilita la cronología y puede afectar plazos y prescripción.",
		fix: "Verifique la fecha con la documentación y úsela de forma consistente en todo el escrito.",
	},
	model.ContradictionNumeric: {
		why: "Un mismo concepto se cuantifica con montos distintos; la pretensión pierde certeza y puede reducirse al menor.",
		fix: "Fije un único monto por concepto y explique el cálculo o la actualización si corresponde.",
	},
	model.ContradictionRole: {
		why: "El mismo acto se atribuye a partes opuestas, lo que confunde la imputación de responsabilidad.",
		fix: "Identifique con precisión qué parte realizó el acto y mantenga esa atribución.",
	},
}

// Narrate turns a raw finding into a report entry
func Narrate(f model.ContradictionFinding) model.ContradictionEntry {
	n := narrations[f.Type]
	return model.ContradictionEntry{
		ID:            f.ID,
		Type:          f.Type,
		Topic:         f.Topic,
		Severity:      Classify(f),
		Confidence:    model.Round(f.Confidence, 2),
		Claims:        [2]model.ClaimRef{refOf(f.Claims[0]), refOf(f.Claims[1])},
		WhyItMatters:  n.why,
		FixSuggestion: n.fix,
	}
}

func refOf(c model.Claim) model.ClaimRef {
	text := c.RawText
	if r := []rune(text); len(r) > maxRefText {
		text = string(r[:maxRefText]) + "…"
	}
	return model.ClaimRef{
		ID:        c.ID,
		SectionID: c.SectionID,
		Start:     c.Start,
		End:       c.End,
		Text:      text,
	}
}

// BuildReport narrates, dedupes and orders findings and computes the summary
func BuildReport(findings []model.ContradictionFinding) model.ContradictionReport {
	seen := make(map[string]bool)
	entries := make([]model.ContradictionEntry, 0, len(findings))

	for _, f := range findings {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		entries = append(entries, Narrate(f))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].Severity.Rank(), entries[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return entries[i].Confidence > entries[j].Confidence
	})

	return model.ContradictionReport{
		Contradictions: entries,
		Summary:        Summarize(entries),
	}
}

// Summarize counts entries per severity and derives the bounded risk index
func Summarize(entries []model.ContradictionEntry) model.SeveritySummary {
	var s model.SeveritySummary
	for _, e := range entries {
		s.Add(e.Severity)
	}
	risk := RiskWeights[model.SeverityCritical]*s.Critical +
		RiskWeights[model.SeverityHigh]*s.High +
		RiskWeights[model.SeverityMedium]*s.Medium +
		RiskWeights[model.SeverityLow]*s.Low
	if risk > 100 {
		risk = 100
	}
	s.RiskIndex = risk
	return s
}

// Detector runs grouping, matching and report building in one call
type Detector struct {
	maxGroupSize int
	logger       logging.Logger
}

// NewDetector creates a detector; a non-positive maxGroupSize means the default
func NewDetector(maxGroupSize int, logger logging.Logger) *Detector {
	if maxGroupSize <= 0 {
		maxGroupSize = DefaultMaxGroupSize
	}
	return &Detector{
		maxGroupSize: maxGroupSize,
		logger:       logging.OrDefault(logger),
	}
}

// Detect produces the contradiction report for a set of claims
func (d *Detector) Detect(claims []model.Claim) model.ContradictionReport {
	groups := Group(claims, d.maxGroupSize, d.logger)
	findings := Match(groups)
	d.logger.Debug("contradiction matching done",
		logging.Int("claims", len(claims)),
		logging.Int("groups", len(groups)),
		logging.Int("findings", len(findings)),
	)
	return BuildReport(findings)
}

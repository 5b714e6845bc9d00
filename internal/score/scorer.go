// Package score combines every engine's output into the explainable decision score.
package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/alegato/internal/lexicon"
	"github.com/ppiankov/alegato/internal/model"
)

// Signal types emitted in the breakdown
const (
	SignalDocType        = "doc_type"
	SignalStructure      = "structural_signals"
	SignalJurisprudence  = "jurisprudence"
	SignalProceduralRisk = "procedural_risk"
	SignalCore           = "core_score"
	SignalPenalties      = "penalties"
	SignalBonus          = "excellence_bonus"
	SignalFinal          = "final_score"
)

// Signal severities
const (
	signalInfo     = "info"
	signalWarning  = "warning"
	signalCritical = "critical"
)

// Bucket thresholds
const (
	HighBucketMin   = 80
	MediumBucketMin = 60
)

// Procedural risk factors
const (
	ProceduralRiskCritical = 0.4
	ProceduralRiskHigh     = 0.65
	ProceduralRiskNone     = 1.0
)

// WeightMatrix holds the component weights per doc type
var WeightMatrix = map[model.DocType]model.ComponentWeights{
	model.DocClaim:     {Pretension: 0.25, Norm: 0.20, Motivation: 0.20, Evidence: 0.20, ProceduralRisk: 0.15},
	model.DocAppeal:    {Pretension: 0.15, Norm: 0.25, Motivation: 0.30, Evidence: 0.10, ProceduralRisk: 0.20},
	model.DocAnswer:    {Pretension: 0.20, Norm: 0.20, Motivation: 0.25, Evidence: 0.20, ProceduralRisk: 0.15},
	model.DocCassation: {Pretension: 0.10, Norm: 0.35, Motivation: 0.30, Evidence: 0.05, ProceduralRisk: 0.20},
	model.DocDefault:   {Pretension: 0.20, Norm: 0.20, Motivation: 0.20, Evidence: 0.20, ProceduralRisk: 0.20},
}

// Input carries every upstream result the score depends on
type Input struct {
	Text           string
	DocType        string // explicit doc type, may be empty
	Weaknesses     []model.Weakness
	StyleFindings  []model.StyleFinding
	Contradictions model.ContradictionReport
	Coherence      model.CoherenceReport
	Rhetoric       *model.RhetoricReport     // nil when rhetoric did not run
	Alignment      *model.PrecedentAlignment // nil when absent
}

// Scorer calculates the decision score and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate calculates the decision score. Every intermediate term is reported
// in the breakdown together with the formula that produced it.
func (s *Scorer) Calculate(in Input) model.DecisionScore {
	folded := lexicon.Fold(in.Text)
	var signals []model.Signal

	// 1. Doc type
	res := ResolveDocType(in.DocType, folded)
	matrix := WeightMatrix[res.DocType]
	signals = append(signals, docTypeSignal(res))

	// 2. Structural signals
	pretension := boolInt(lexicon.Pretension.Match(folded))
	norm := boolInt(lexicon.NormCitation.Match(folded))
	motivation := boolInt(lexicon.Motivation.Match(folded))
	evidence := boolInt(lexicon.Evidence.Match(folded))
	signals = append(signals, structureSignal(pretension, norm, motivation, evidence))

	// 3. Jurisprudence
	juris, jurisWeight := jurisprudence(in.Alignment)
	coreWeight := 1 - jurisWeight
	signals = append(signals, jurisprudenceSignal(in.Alignment != nil, juris, jurisWeight))

	// 4. Procedural risk
	contra := countContradictions(in.Contradictions.Contradictions)
	procRisk := ProceduralRiskNone
	switch {
	case contra[model.SeverityCritical] > 0:
		procRisk = ProceduralRiskCritical
	case contra[model.SeverityHigh] > 0:
		procRisk = ProceduralRiskHigh
	}
	signals = append(signals, proceduralSignal(contra, procRisk))

	// 5. Core and base
	weighted := model.ComponentWeights{
		Pretension:     matrix.Pretension * float64(pretension),
		Norm:           matrix.Norm * float64(norm),
		Motivation:     matrix.Motivation * float64(motivation),
		Evidence:       matrix.Evidence * float64(evidence),
		ProceduralRisk: matrix.ProceduralRisk * procRisk,
	}
	core := model.Clamp01(weighted.Pretension + weighted.Norm + weighted.Motivation + weighted.Evidence + weighted.ProceduralRisk)
	coreContribution := 100 * coreWeight * core
	jurisContribution := 100 * jurisWeight * juris
	base := model.Clamp(coreContribution+jurisContribution, 0, 100)
	signals = append(signals, coreSignal(res.DocType, core, coreWeight, base))

	// 6. Penalties
	penalties := Penalties(in)
	signals = append(signals, penaltySignal(penalties))

	// 7. Bonus
	eligible := base >= BonusMinBase &&
		contra[model.SeverityCritical] == 0 &&
		!hasHighWeakness(in.Weaknesses) &&
		motivation == 1 && norm == 1 &&
		in.Alignment != nil && juris >= BonusMinAlignment
	bonus := 0.0
	if eligible {
		bonus = Bonus(juris)
	}
	signals = append(signals, bonusSignal(eligible, bonus))

	// 8. Final
	final := model.Round(model.Clamp(base-penalties.Total+bonus, 0, 100), 2)
	bucket := BucketFor(final)
	signals = append(signals, model.Signal{
		Type:        SignalFinal,
		Severity:    bucketSeverity(bucket),
		Description: fmt.Sprintf("Final score %.2f (%s)", final, bucket),
		Data: map[string]interface{}{
			"base":      model.Round(base, 2),
			"penalties": penalties.Total,
			"bonus":     bonus,
			"score":     final,
			"formula":   "clamp(base - total_penalties + bonus, 0, 100)",
		},
	})

	return model.DecisionScore{
		Score:  final,
		Bucket: bucket,
		Breakdown: model.ScoreBreakdown{
			Pretension:         pretension,
			NormCited:          norm,
			Motivation:         motivation,
			Evidence:           evidence,
			ProceduralRisk:     procRisk,
			Weighted:           roundWeights(weighted),
			CoreScore:          model.Round(core, 4),
			JurisprudenceScore: model.Round(juris, 4),
			CoreContribution:   model.Round(coreContribution, 2),
			JurisContribution:  model.Round(jurisContribution, 2),
			BaseScore:          model.Round(base, 2),
			TotalPenalties:     penalties.Total,
			Bonus:              bonus,
			FinalScore:         final,
			Signals:            signals,
		},
		Penalties: penalties,
		Bonus:     bonus,
		Weights: model.ScoreWeights{
			Matrix:        matrix,
			Core:          model.Round(coreWeight, 2),
			Jurisprudence: jurisWeight,
		},
		Meta: model.ScoreMeta{
			DocType:           res.DocType,
			DocTypeSource:     res.Source,
			DocTypeConfidence: res.Confidence,
			KeywordScores:     res.KeywordScores,
			AlignmentPresent:  in.Alignment != nil,
			BonusEligible:     eligible,
		},
	}
}

// JurisprudenceWeight is the blend weight earned by an alignment score
func JurisprudenceWeight(juris float64) float64 {
	switch {
	case juris >= 0.9:
		return 0.30
	case juris >= 0.85:
		return 0.25
	case juris >= 0.8:
		return 0.20
	default:
		return 0.10
	}
}

func jurisprudence(a *model.PrecedentAlignment) (score, weight float64) {
	if a == nil {
		return 0, 0
	}
	score = model.Clamp01(a.BestScore)
	return score, JurisprudenceWeight(score)
}

// BucketFor maps a final score to its qualitative band
func BucketFor(score float64) model.ScoreBucket {
	switch {
	case score >= HighBucketMin:
		return model.BucketHigh
	case score >= MediumBucketMin:
		return model.BucketMedium
	default:
		return model.BucketLow
	}
}

func countContradictions(entries []model.ContradictionEntry) map[model.Severity]int {
	out := make(map[model.Severity]int, len(model.Severities))
	for _, e := range entries {
		out[e.Severity]++
	}
	return out
}

func hasHighWeakness(weaknesses []model.Weakness) bool {
	for _, w := range weaknesses {
		if w.Severity == model.SeverityHigh || w.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func roundWeights(w model.ComponentWeights) model.ComponentWeights {
	return model.ComponentWeights{
		Pretension:     model.Round(w.Pretension, 4),
		Norm:           model.Round(w.Norm, 4),
		Motivation:     model.Round(w.Motivation, 4),
		Evidence:       model.Round(w.Evidence, 4),
		ProceduralRisk: model.Round(w.ProceduralRisk, 4),
	}
}

func bucketSeverity(b model.ScoreBucket) string {
	switch b {
	case model.BucketHigh:
		return signalInfo
	case model.BucketMedium:
		return signalWarning
	default:
		return signalCritical
	}
}

func docTypeSignal(res DocTypeResolution) model.Signal {
	severity := signalInfo
	if res.Source == DocTypeDefault {
		severity = signalWarning
	}
	data := map[string]interface{}{
		"doc_type":   string(res.DocType),
		"source":     res.Source,
		"confidence": res.Confidence,
		"formula":    "top >= 4 ? (top - second) / top : default",
	}
	for dt, v := range res.KeywordScores {
		data["keywords_"+string(dt)] = v
	}
	return model.Signal{
		Type:        SignalDocType,
		Severity:    severity,
		Description: fmt.Sprintf("Document type %s (%s, confidence %.2f)", res.DocType, res.Source, res.Confidence),
		Data:        data,
	}
}

func structureSignal(pretension, norm, motivation, evidence int) model.Signal {
	present := pretension + norm + motivation + evidence
	severity := signalInfo
	if present < 2 {
		severity = signalCritical
	} else if present < 4 {
		severity = signalWarning
	}
	return model.Signal{
		Type:        SignalStructure,
		Severity:    severity,
		Description: fmt.Sprintf("%d/4 structural elements present", present),
		Data: map[string]interface{}{
			"pretension": pretension,
			"norm":       norm,
			"motivation": motivation,
			"evidence":   evidence,
		},
	}
}

func jurisprudenceSignal(present bool, juris, weight float64) model.Signal {
	if !present {
		return model.Signal{
			Type:        SignalJurisprudence,
			Severity:    signalWarning,
			Description: "No precedent alignment available (zero influence)",
			Data:        map[string]interface{}{"weight": 0.0},
		}
	}
	return model.Signal{
		Type:        SignalJurisprudence,
		Severity:    signalInfo,
		Description: fmt.Sprintf("Best precedent alignment %.2f, weight %.2f", juris, weight),
		Data: map[string]interface{}{
			"best_score": juris,
			"weight":     weight,
			"formula":    "weight = 0.30 if >=0.9, 0.25 if >=0.85, 0.20 if >=0.8, else 0.10",
		},
	}
}

func proceduralSignal(contra map[model.Severity]int, risk float64) model.Signal {
	severity := signalInfo
	if risk < ProceduralRiskNone {
		severity = signalCritical
	}
	return model.Signal{
		Type:        SignalProceduralRisk,
		Severity:    severity,
		Description: fmt.Sprintf("Procedural risk factor %.2f", risk),
		Data: map[string]interface{}{
			"critical_contradictions": contra[model.SeverityCritical],
			"high_contradictions":     contra[model.SeverityHigh],
			"factor":                  risk,
			"formula":                 "0.4 if critical > 0, 0.65 if high > 0, else 1",
		},
	}
}

func coreSignal(dt model.DocType, core, coreWeight, base float64) model.Signal {
	return model.Signal{
		Type:        SignalCore,
		Severity:    signalInfo,
		Description: fmt.Sprintf("Core score %.3f with %s weights, base %.2f", core, dt, base),
		Data: map[string]interface{}{
			"core":        model.Round(core, 4),
			"core_weight": model.Round(coreWeight, 2),
			"base":        model.Round(base, 2),
			"formula":     "base = 100 * (core_weight * core + juris_weight * juris)",
		},
	}
}

func penaltySignal(p model.ScorePenalties) model.Signal {
	severity := signalInfo
	if p.Total >= 30 {
		severity = signalCritical
	} else if p.Total > 0 {
		severity = signalWarning
	}
	return model.Signal{
		Type:        SignalPenalties,
		Severity:    severity,
		Description: fmt.Sprintf("Total penalties %.2f", p.Total),
		Data: map[string]interface{}{
			"weaknesses":     p.Weaknesses,
			"style":          p.Style,
			"contradictions": p.Contradictions,
			"coherence":      p.Coherence,
			"rhetoric":       p.Rhetoric,
			"formula":        "each family min(sum(points), cap); rhetoric min(0.2 * max(0, 60 - score), 8)",
		},
	}
}

func bonusSignal(eligible bool, bonus float64) model.Signal {
	desc := "Excellence bonus not applicable"
	if eligible {
		desc = fmt.Sprintf("Excellence bonus +%.0f", bonus)
	}
	return model.Signal{
		Type:        SignalBonus,
		Severity:    signalInfo,
		Description: desc,
		Data: map[string]interface{}{
			"eligible": eligible,
			"bonus":    bonus,
			"formula":  "8 if alignment >= 0.92, 6 if >= 0.88, 3 if >= 0.85",
		},
	}
}

// pointsFor sums per-severity points and applies the family cap
func pointsFor(counts map[model.Severity]int, points map[model.Severity]float64, limit float64) float64 {
	total := 0.0
	for _, sev := range model.Severities {
		total += float64(counts[sev]) * points[sev]
	}
	return model.Round(math.Min(total, limit), 2)
}

// Package outcome derives a heuristic success estimate from the decision score.
package outcome

import "github.com/ppiankov/alegato/internal/model"

// Coefficients
const (
	scoreWeight         = 0.6
	jurisWeight         = 0.25
	rhetoricBoost       = 0.05
	rhetoricBoostMin    = 80
	contradictionWeight = 0.15
	coherenceWeight     = 0.12

	lowRiskMin    = 0.75
	mediumRiskMin = 0.55

	principleRhetoricMin = 75
)

// Input is everything the predictor reads
type Input struct {
	Score          model.DecisionScore
	Contradictions model.ContradictionReport
	Coherence      model.CoherenceReport
	Rhetoric       *model.RhetoricReport
}

// Predictor produces outcome predictions
type Predictor struct{}

// NewPredictor creates a predictor
func NewPredictor() *Predictor {
	return &Predictor{}
}

// Predict computes probability, risk level, judge profile and key factors
func (p *Predictor) Predict(in Input) model.OutcomePrediction {
	criticalContra := 0
	highContra := 0
	for _, c := range in.Contradictions.Contradictions {
		switch c.Severity {
		case model.SeverityCritical:
			criticalContra++
		case model.SeverityHigh:
			highContra++
		}
	}
	criticalCoh := 0
	for _, f := range in.Coherence.Findings {
		if f.Severity == model.SeverityCritical {
			criticalCoh++
		}
	}

	rhetoric := 0.0
	if in.Rhetoric != nil {
		rhetoric = in.Rhetoric.Summary.Score
	}
	juris := model.Clamp01(in.Score.Breakdown.JurisprudenceScore)

	boost := 0.0
	if rhetoric > rhetoricBoostMin {
		boost = rhetoricBoost
	}
	penalty := contradictionWeight*float64(criticalContra) + coherenceWeight*float64(criticalCoh)

	probability := model.Round(model.Clamp01(scoreWeight*in.Score.Score/100+jurisWeight*juris+boost-penalty), 3)

	return model.OutcomePrediction{
		Probability:  probability,
		RiskLevel:    riskLevel(probability),
		JudgeProfile: judgeProfile(criticalContra+criticalCoh, rhetoric),
		KeyFactors:   keyFactors(in, juris, rhetoric, criticalContra, highContra, criticalCoh),
		ModelVersion: model.OutcomeModelVersion,
	}
}

func riskLevel(probability float64) model.RiskLevel {
	switch {
	case probability >= lowRiskMin:
		return model.RiskLow
	case probability >= mediumRiskMin:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

func judgeProfile(criticalLogical int, rhetoric float64) model.JudgeProfile {
	switch {
	case criticalLogical > 1:
		return model.JudgeFormalist
	case rhetoric > principleRhetoricMin:
		return model.JudgePrinciple
	default:
		return model.JudgeMixed
	}
}

func keyFactors(in Input, juris, rhetoric float64, criticalContra, highContra, criticalCoh int) []string {
	factors := []string{}
	add := func(cond bool, f string) {
		if cond {
			factors = append(factors, f)
		}
	}

	add(in.Score.Score >= 80, "Calidad técnica alta del escrito")
	add(in.Score.Score < 60, "Calidad técnica insuficiente del escrito")
	add(in.Score.Meta.AlignmentPresent && juris >= 0.85, "Fuerte alineación con precedentes")
	add(!in.Score.Meta.AlignmentPresent, "Sin alineación con precedentes disponible")
	add(criticalContra > 0, "Contradicciones críticas en el relato")
	add(criticalContra == 0 && highContra > 0, "Contradicciones relevantes en el relato")
	add(criticalCoh > 0, "Desconexión grave entre hechos, derecho y petitorio")
	add(in.Score.Breakdown.NormCited == 0, "No se citan normas aplicables")
	add(in.Score.Breakdown.Evidence == 0, "No se ofrece ni menciona prueba")
	add(rhetoric > 80, "Redacción clara y bien articulada")
	add(in.Rhetoric != nil && in.Rhetoric.Summary.Sentences > 0 && rhetoric < 50, "Redacción de difícil lectura")

	return factors
}

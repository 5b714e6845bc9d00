package score

import (
	"math"

	"github.com/ppiankov/alegato/internal/model"
)

// Per-severity penalty points. ContradictionPenaltyPoints is intentionally
// distinct from the contradiction and coherence risk-index weights.
var (
	WeaknessPenaltyPoints = map[model.Severity]float64{
		model.SeverityCritical: 12,
		model.SeverityHigh:     12,
		model.SeverityMedium:   7,
		model.SeverityLow:      3,
	}
	ContradictionPenaltyPoints = map[model.Severity]float64{
		model.SeverityCritical: 25,
		model.SeverityHigh:     15,
		model.SeverityMedium:   8,
		model.SeverityLow:      3,
	}
	CoherencePenaltyPoints = map[model.Severity]float64{
		model.SeverityCritical: 22,
		model.SeverityHigh:     14,
		model.SeverityMedium:   8,
		model.SeverityLow:      3,
	}
)

// Penalty caps and rates
const (
	WeaknessPenaltyCap      = 45
	StylePenaltyPerFinding  = 2.5
	StylePenaltyCap         = 12
	ContradictionPenaltyCap = 50
	CoherencePenaltyCap     = 45

	RhetoricPenaltyFloor = 60
	RhetoricPenaltyRate  = 0.2
	RhetoricPenaltyCap   = 8
)

// Bonus conditions
const (
	BonusMinBase      = 70
	BonusMinAlignment = 0.85
)

// Penalties computes every capped penalty family and their sum
func Penalties(in Input) model.ScorePenalties {
	weak := make(map[model.Severity]int)
	for _, w := range in.Weaknesses {
		weak[w.Severity]++
	}
	coh := make(map[model.Severity]int)
	for _, f := range in.Coherence.Findings {
		coh[f.Severity]++
	}

	p := model.ScorePenalties{
		Weaknesses:     pointsFor(weak, WeaknessPenaltyPoints, WeaknessPenaltyCap),
		Style:          model.Round(math.Min(StylePenaltyPerFinding*float64(len(in.StyleFindings)), StylePenaltyCap), 2),
		Contradictions: pointsFor(countContradictions(in.Contradictions.Contradictions), ContradictionPenaltyPoints, ContradictionPenaltyCap),
		Coherence:      pointsFor(coh, CoherencePenaltyPoints, CoherencePenaltyCap),
	}
	if in.Rhetoric != nil && in.Rhetoric.Summary.Sentences > 0 {
		p.Rhetoric = RhetoricPenalty(in.Rhetoric.Summary.Score)
	}
	p.Total = model.Round(p.Weaknesses+p.Style+p.Contradictions+p.Coherence+p.Rhetoric, 2)
	return p
}

// RhetoricPenalty penalizes rhetoric scores below RhetoricPenaltyFloor
func RhetoricPenalty(rhetoricScore float64) float64 {
	return model.Round(math.Min(RhetoricPenaltyRate*math.Max(0, RhetoricPenaltyFloor-rhetoricScore), RhetoricPenaltyCap), 2)
}

// Bonus returns the excellence bonus earned by an alignment score
func Bonus(juris float64) float64 {
	switch {
	case juris >= 0.92:
		return 8
	case juris >= 0.88:
		return 6
	case juris >= 0.85:
		return 3
	default:
		return 0
	}
}

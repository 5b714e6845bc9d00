package outcome

import (
	"testing"

	"github.com/ppiankov/alegato/internal/model"
)

func scoreOf(v, juris float64, aligned bool) model.DecisionScore {
	return model.DecisionScore{
		Score: v,
		Breakdown: model.ScoreBreakdown{
			JurisprudenceScore: juris,
			NormCited:          1,
			Evidence:           1,
		},
		Meta: model.ScoreMeta{AlignmentPresent: aligned},
	}
}

func rhetoricOf(score float64) *model.RhetoricReport {
	return &model.RhetoricReport{Summary: model.RhetoricSummary{Score: score, Sentences: 10}}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		probability float64
		risk        model.RiskLevel
		profile     model.JudgeProfile
	}{
		{
			name:        "strong submission",
			in:          Input{Score: scoreOf(100, 0.9, true), Rhetoric: rhetoricOf(85)},
			probability: 0.875, // 0.6 + 0.225 + 0.05
			risk:        model.RiskLow,
			profile:     model.JudgePrinciple,
		},
		{
			name:        "medium submission",
			in:          Input{Score: scoreOf(70, 0.6, true), Rhetoric: rhetoricOf(60)},
			probability: 0.57, // 0.42 + 0.15
			risk:        model.RiskMedium,
			profile:     model.JudgeMixed,
		},
		{
			name: "critical issues",
			in: Input{
				Score: scoreOf(50, 0, false),
				Contradictions: model.ContradictionReport{Contradictions: []model.ContradictionEntry{
					{Severity: model.SeverityCritical},
				}},
				Coherence: model.CoherenceReport{Findings: []model.CoherenceFinding{
					{Severity: model.SeverityCritical},
				}},
				Rhetoric: rhetoricOf(90),
			},
			probability: 0.08, // 0.3 + 0.05 - 0.15 - 0.12
			risk:        model.RiskHigh,
			profile:     model.JudgeFormalist,
		},
		{
			name:        "floor at zero",
			in:          Input{Score: scoreOf(0, 0, false), Contradictions: model.ContradictionReport{Contradictions: []model.ContradictionEntry{{Severity: model.SeverityCritical}}}},
			probability: 0,
			risk:        model.RiskHigh,
			profile:     model.JudgeMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPredictor().Predict(tt.in)
			if got.Probability != tt.probability {
				t.Errorf("expected probability %v, got %v", tt.probability, got.Probability)
			}
			if got.RiskLevel != tt.risk {
				t.Errorf("expected risk %s, got %s", tt.risk, got.RiskLevel)
			}
			if got.JudgeProfile != tt.profile {
				t.Errorf("expected profile %s, got %s", tt.profile, got.JudgeProfile)
			}
			if got.ModelVersion != model.OutcomeModelVersion {
				t.Errorf("expected model version %s, got %s", model.OutcomeModelVersion, got.ModelVersion)
			}
			if got.KeyFactors == nil {
				t.Error("expected non-nil key factors")
			}
		})
	}
}

func TestPredict_KeyFactors(t *testing.T) {
	got := NewPredictor().Predict(Input{Score: scoreOf(40, 0, false)})

	want := map[string]bool{
		"Calidad técnica insuficiente del escrito":  true,
		"Sin alineación con precedentes disponible": true,
	}
	if len(got.KeyFactors) != len(want) {
		t.Fatalf("expected %d factors, got %v", len(want), got.KeyFactors)
	}
	for _, f := range got.KeyFactors {
		if !want[f] {
			t.Errorf("unexpected factor %q", f)
		}
	}
}

package coherence

import (
	"testing"

	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
)

type part struct {
	id   string
	body string
}

// compose joins section bodies and returns matching spans
func compose(parts ...part) (string, []model.Span) {
	var text string
	var spans []model.Span
	for _, p := range parts {
		start := len(text)
		text += p.body + "\n\n"
		spans = append(spans, model.Span{ID: p.id, Start: start, End: len(text)})
	}
	return text, spans
}

func analyze(text string, spans []model.Span) model.CoherenceReport {
	return NewEngine(logging.NewNopLogger()).Analyze(text, spans)
}

func countType(report model.CoherenceReport, t model.CoherenceType) []model.CoherenceFinding {
	var out []model.CoherenceFinding
	for _, f := range report.Findings {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func TestNormativeMisalignment(t *testing.T) {
	text, spans := compose(
		part{"hechos", "Las partes firmaron un contrato de obra según consta en la documental."},
		part{"fundamentos", "La pretensión se funda en el art. 1716 del Código Civil y en la ley 24240."},
	)

	found := countType(analyze(text, spans), model.CoherenceNormativeMisalignment)

	if len(found) != 1 {
		t.Fatalf("expected exactly 1 normative_misalignment, got %d", len(found))
	}
	if found[0].Severity != model.SeverityMedium {
		t.Errorf("expected medium severity, got %s", found[0].Severity)
	}
	if found[0].Confidence != NormativeConfidence {
		t.Errorf("expected confidence %v, got %v", NormativeConfidence, found[0].Confidence)
	}
	if len(found[0].Evidence) != 1 || found[0].Evidence[0].Section != "grounds" {
		t.Errorf("expected evidence in grounds, got %+v", found[0].Evidence)
	}
}

func TestNormativeMisalignment_WithApplication(t *testing.T) {
	text, spans := compose(
		part{"fundamentos", "El art. 1716 del Código Civil resulta aplicable en el presente caso."},
	)

	if found := countType(analyze(text, spans), model.CoherenceNormativeMisalignment); len(found) != 0 {
		t.Errorf("expected no normative_misalignment, got %+v", found)
	}
}

func TestInferentialGap(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"unsupported conclusion", "El demandado incumplió lo pactado. Por lo tanto corresponde condenarlo.", 1},
		{"supported in previous sentence", "La factura acredita la deuda. Por lo tanto corresponde condenarlo.", 0},
		{"supported beyond lookback", "La factura acredita la deuda. Uno. Dos. Tres. Por lo tanto corresponde condenarlo.", 1},
		{"no conclusion", "El demandado incumplió lo pactado.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, spans := compose(part{"hechos", tt.body})
			found := countType(analyze(text, spans), model.CoherenceInferentialGap)
			if len(found) != tt.want {
				t.Fatalf("expected %d gaps, got %d", tt.want, len(found))
			}
			if tt.want > 0 && (found[0].Severity != model.SeverityHigh || found[0].Confidence != InferentialGapConfidence) {
				t.Errorf("unexpected finding %+v", found[0])
			}
		})
	}
}

func TestInferentialGap_SkipsPetition(t *testing.T) {
	text, spans := compose(part{"petitorio", "Por lo tanto solicito se condene a la demandada."})

	if found := countType(analyze(text, spans), model.CoherenceInferentialGap); len(found) != 0 {
		t.Errorf("expected petition to be skipped, got %+v", found)
	}
}

func TestThesisDisconnect(t *testing.T) {
	tests := []struct {
		name     string
		parts    []part
		want     int
		severity model.Severity
	}{
		{
			name:     "both anchors missing",
			parts:    []part{{"petitorio", "Solicito se condene a la demandada."}},
			want:     1,
			severity: model.SeverityCritical,
		},
		{
			name: "grounds missing",
			parts: []part{
				{"hechos", "La prueba documental acredita el incumplimiento."},
				{"petitorio", "Solicito se condene a la demandada."},
			},
			want:     1,
			severity: model.SeverityHigh,
		},
		{
			name: "fully anchored",
			parts: []part{
				{"hechos", "La prueba documental acredita el incumplimiento."},
				{"derecho", "Es aplicable el art. 1716 del Código Civil en el presente caso."},
				{"petitorio", "Solicito se condene a la demandada."},
			},
			want: 0,
		},
		{
			name: "no petition",
			parts: []part{
				{"hechos", "Un relato breve."},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, spans := compose(tt.parts...)
			found := countType(analyze(text, spans), model.CoherenceThesisDisconnect)
			if len(found) != tt.want {
				t.Fatalf("expected %d findings, got %d", tt.want, len(found))
			}
			if tt.want > 0 && found[0].Severity != tt.severity {
				t.Errorf("expected %s, got %s", tt.severity, found[0].Severity)
			}
		})
	}
}

func TestFactValueMix(t *testing.T) {
	unanchored, spans := compose(part{"hechos", "La conducta de la demandada fue claramente abusiva."})
	found := countType(analyze(unanchored, spans), model.CoherenceFactValueMix)
	if len(found) != 1 || found[0].Severity != model.SeverityLow {
		t.Fatalf("expected one low fact_value_mix, got %+v", found)
	}

	anchored, spans := compose(part{"hechos",
		"El 05/03/2021 se remitió intimación fehaciente. La conducta de la demandada fue claramente abusiva."})
	if found := countType(analyze(anchored, spans), model.CoherenceFactValueMix); len(found) != 0 {
		t.Errorf("expected neighbour date to anchor the judgment, got %+v", found)
	}
}

func TestAnalyze_NoSpans(t *testing.T) {
	report := analyze("El demandado incumplió. Por lo tanto corresponde condenarlo.", nil)

	if len(report.Findings) != 1 || report.Findings[0].Type != model.CoherenceInferentialGap {
		t.Fatalf("expected a single inferential gap, got %+v", report.Findings)
	}
	if report.Findings[0].Evidence[0].Section != "document" {
		t.Errorf("expected document section, got %q", report.Findings[0].Evidence[0].Section)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	report := analyze("", nil)
	if len(report.Findings) != 0 || report.Summary.Total != 0 || report.Summary.RiskIndex != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestBuildReport_Summary(t *testing.T) {
	findings := []model.CoherenceFinding{
		{ID: "a", Severity: model.SeverityLow},
		{ID: "b", Severity: model.SeverityCritical},
		{ID: "a", Severity: model.SeverityLow},
		{ID: "c", Severity: model.SeverityMedium},
	}

	report := BuildReport(findings)

	if len(report.Findings) != 3 || report.Summary.Total != 3 {
		t.Fatalf("expected 3 deduped findings, got %d (summary %d)", len(report.Findings), report.Summary.Total)
	}
	if report.Findings[0].ID != "b" {
		t.Errorf("expected critical first, got %s", report.Findings[0].ID)
	}
	if report.Summary.RiskIndex != 28+10+4 {
		t.Errorf("expected risk index 42, got %d", report.Summary.RiskIndex)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text, spans := compose(
		part{"hechos", "La conducta fue claramente abusiva. Por lo tanto corresponde condenar."},
		part{"fundamentos", "Art. 1716 del Código Civil."},
		part{"petitorio", "Solicito se condene."},
	)

	a := analyze(text, spans)
	b := analyze(text, spans)
	if len(a.Findings) != len(b.Findings) {
		t.Fatalf("expected identical finding counts, got %d and %d", len(a.Findings), len(b.Findings))
	}
	for i := range a.Findings {
		if a.Findings[i].ID != b.Findings[i].ID {
			t.Errorf("finding %d differs: %s vs %s", i, a.Findings[i].ID, b.Findings[i].ID)
		}
	}
}

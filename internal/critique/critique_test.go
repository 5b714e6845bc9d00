package critique

import (
	"testing"

	"github.com/ppiankov/alegato/internal/model"
)

func TestDetectWeaknesses_AllMissing(t *testing.T) {
	got := DetectWeaknesses("Un texto sin elementos relevantes.")

	want := []string{CodeNoPretension, CodeNoNorm, CodeNoMotivation, CodeNoCausalLink}
	if len(got) != len(want) {
		t.Fatalf("expected %d weaknesses, got %d", len(want), len(got))
	}
	for i, w := range got {
		if w.Code != want[i] {
			t.Errorf("weakness %d: expected %s, got %s", i, want[i], w.Code)
		}
		if w.Suggestion == "" {
			t.Errorf("weakness %s has no suggestion", w.Code)
		}
	}
	if got[0].Severity != model.SeverityHigh || got[2].Severity != model.SeverityMedium {
		t.Errorf("unexpected severities %s, %s", got[0].Severity, got[2].Severity)
	}
}

func TestDetectWeaknesses_Complete(t *testing.T) {
	text := "Solicito se condene a la demandada, toda vez que el daño fue causado por su " +
		"incumplimiento, conforme el art. 1716 del Código Civil."

	if got := DetectWeaknesses(text); len(got) != 0 {
		t.Errorf("expected no weaknesses, got %+v", got)
	}
}

func TestDetectWeaknesses_AccentInsensitive(t *testing.T) {
	withAccent := DetectWeaknesses("Existe relación de causalidad.")
	for _, w := range withAccent {
		if w.Code == CodeNoCausalLink {
			t.Errorf("expected causal link to be found through accent folding")
		}
	}
}

func TestCritiqueStyle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "clean",
			text: "La demandada incumplió el contrato el 01/03/2021.",
			want: nil,
		},
		{
			name: "vague and conclusory",
			text: "De alguna manera la demandada incumplió. Es evidente que debe pagar. Es indudable.",
			want: []string{CodeVague, CodeConclusory},
		},
		{
			name: "adjectives below threshold",
			text: "Un incumplimiento flagrante y grosero.",
			want: nil,
		},
		{
			name: "adjectives",
			text: "Un incumplimiento flagrante, grosero y escandaloso.",
			want: []string{CodeAdjectives},
		},
		{
			name: "demonstratives",
			text: "La demandada no pagó. Esto implica mora. Eso demuestra mala fe.",
			want: []string{CodeDemonstrative},
		},
		{
			name: "single demonstrative",
			text: "La demandada no pagó. Esto implica mora.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CritiqueStyle(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d findings, got %+v", len(tt.want), got)
			}
			for i, f := range got {
				if f.Code != tt.want[i] {
					t.Errorf("finding %d: expected %s, got %s", i, tt.want[i], f.Code)
				}
				if len(f.Examples) == 0 {
					t.Errorf("finding %s has no examples", f.Code)
				}
			}
		})
	}
}

func TestCritiqueStyle_OnePerCategory(t *testing.T) {
	text := "De alguna manera pasó. De algún modo siguió. Entre otros, cosas."

	got := CritiqueStyle(text)
	if len(got) != 1 {
		t.Fatalf("expected one vague finding, got %+v", got)
	}
	if len(got[0].Examples) != 1 || got[0].Examples[0] != "de alguna manera" {
		t.Errorf("expected first match as the only example, got %v", got[0].Examples)
	}
}

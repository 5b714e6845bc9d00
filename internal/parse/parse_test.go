package parse

import (
	"math"
	"testing"

	"github.com/ppiankov/alegato/internal/lexicon"
)

func TestSplitSentences(t *testing.T) {
	text := "Primera oración. Segunda oración!  Tercera sin cierre"
	sentences := SplitSentences(text, 100)

	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %+v", len(sentences), sentences)
	}

	want := []string{"Primera oración.", "Segunda oración!", "Tercera sin cierre"}
	for i, s := range sentences {
		if s.Text != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], s.Text)
		}
		if text[s.Start-100:s.End-100] != s.Text {
			t.Errorf("sentence %d: offsets [%d,%d) do not map back onto the text", i, s.Start, s.End)
		}
	}
}

func TestSplitSentences_NoSplitWithoutWhitespace(t *testing.T) {
	sentences := SplitSentences("Monto de 1.500 pesos. Fin.", 0)
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if sentences[0].Text != "Monto de 1.500 pesos." {
		t.Errorf("unexpected first sentence %q", sentences[0].Text)
	}
}

func TestSplitSentences_Empty(t *testing.T) {
	if got := SplitSentences("   \n ", 0); len(got) != 0 {
		t.Errorf("expected no sentences, got %d", len(got))
	}
}

func TestSplitParagraphs(t *testing.T) {
	text := "uno\ndos\n\n\ntres\n"
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paragraphs))
	}
	if paragraphs[0].Text != "uno\ndos" {
		t.Errorf("unexpected first paragraph %q", paragraphs[0].Text)
	}
	if paragraphs[1].Text != "tres" {
		t.Errorf("unexpected second paragraph %q", paragraphs[1].Text)
	}
}

func TestIsNegated(t *testing.T) {
	tests := []struct {
		sentence string
		phrase   string
		want     bool
	}{
		{"Las partes suscribieron el contrato", "suscribieron el contrato", false},
		{"Las partes nunca suscribieron el contrato", "suscribieron el contrato", true},
		{"Es falso que las partes no hayan suscripto", "suscripto", true},
		{"No es cierto, segun consta en autos y en la prueba, que se firmara el contrato", "firmara el contrato", false},
		{"El contrato no fue firmado", "contrato no fue firmado", true},
		{"Sin embargo, las partes firmaron el contrato", "firmaron el contrato", false},
		{"No obstante, el demandado pago la factura", "pago", false},
		{"Sin perjuicio de ello, se notifico la sentencia", "notifico", false},
		{"No solo no pago la factura", "pago", true},
	}

	for _, tt := range tests {
		folded := lexicon.Fold(tt.sentence)
		start := indexOf(folded, lexicon.Fold(tt.phrase))
		if start < 0 {
			t.Fatalf("phrase %q not found", tt.phrase)
		}
		end := start + len(lexicon.Fold(tt.phrase))
		if got := IsNegated(folded, start, end, 4); got != tt.want {
			t.Errorf("IsNegated(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestFindNegations(t *testing.T) {
	negs := FindNegations("no pago ni deposito nunca")
	if len(negs) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(negs))
	}
	if negs[1].Cue != "ni" {
		t.Errorf("expected second cue 'ni', got %q", negs[1].Cue)
	}

	if negs := FindNegations("sin embargo, no obstante lo expuesto, nunca pago"); len(negs) != 1 || negs[0].Cue != "nunca" {
		t.Errorf("expected only 'nunca' outside connectors, got %+v", negs)
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"firmado el 01/03/2020 y ratificado el 11-03-2020", []string{"2020-03-01", "2020-03-11"}},
		{"el 5 de marzo de 2021 se notificó", []string{"2021-03-05"}},
		{"el 1º de setiembre del 2019", []string{"2019-09-01"}},
		{"signed on March 5, 2021", []string{"2021-03-05"}},
		{"signed on 5 March 2021", []string{"2021-03-05"}},
		{"fecha 31/02/2020 inexistente", nil},
		{"año corto 3.4.21", []string{"2021-04-03"}},
		{"sin fecha alguna", nil},
		{"firmado el 2020-03-10 en Lima", []string{"2020-03-10"}},
		{"fecha ISO inválida 2020-02-30", nil},
	}

	for _, tt := range tests {
		dates := ParseDates(tt.text)
		if len(dates) != len(tt.want) {
			t.Errorf("ParseDates(%q): expected %d dates, got %d (%+v)", tt.text, len(tt.want), len(dates), dates)
			continue
		}
		for i, d := range dates {
			if d.ISO != tt.want[i] {
				t.Errorf("ParseDates(%q)[%d] = %s, want %s", tt.text, i, d.ISO, tt.want[i])
			}
		}
	}
}

func TestDaysBetween(t *testing.T) {
	days, ok := DaysBetween("2020-03-11", "2020-03-01")
	if !ok || days != 10 {
		t.Errorf("expected 10 days, got %d (ok=%v)", days, ok)
	}
	if _, ok := DaysBetween("bad", "2020-03-01"); ok {
		t.Error("expected failure on malformed date")
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"20,000.00", 20000},
		{"20.000,50", 20000.5},
		{"1,234,567", 1234567},
		{"1,5", 1.5},
		{"1.500", 1500},
		{"12.5", 12.5},
		{"1.234.567", 1234567},
		{"300", 300},
	}

	for _, tt := range tests {
		got, err := NormalizeNumber(tt.in)
		if err != nil {
			t.Errorf("NormalizeNumber(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAmounts(t *testing.T) {
	tests := []struct {
		text     string
		value    float64
		currency string
	}{
		{"la suma de $20,000.00 en concepto", 20000, "USD"},
		{"la suma de US$ 1.500", 1500, "USD"},
		{"reclama € 3.000,50", 3000.5, "EUR"},
		{"reclama 2.500 pesos", 2500, "ARS"},
		{"abonó 100 dólares", 100, "USD"},
		{"pagó S/ 20,000.00 al contado", 20000, "PEN"},
		{"la suma de S/. 1,500.50", 1500.5, "PEN"},
		{"reclama PEN 300", 300, "PEN"},
		{"una deuda de 4.000 soles", 4000, "PEN"},
	}

	for _, tt := range tests {
		a, ok := FirstAmount(tt.text)
		if !ok {
			t.Errorf("FirstAmount(%q): no amount found", tt.text)
			continue
		}
		if math.Abs(a.Value-tt.value) > 1e-9 || a.Currency != tt.currency {
			t.Errorf("FirstAmount(%q) = %v %s, want %v %s", tt.text, a.Value, a.Currency, tt.value, tt.currency)
		}
	}

	if _, ok := FirstAmount("sin importes"); ok {
		t.Error("expected no amount")
	}
}

func TestAmountsClose(t *testing.T) {
	if AmountsClose(20000, "USD", 25000, "USD") {
		t.Error("expected 20,000 vs 25,000 not to be close")
	}
	if !AmountsClose(20000, "USD", 20050, "USD") {
		t.Error("expected 20,000 vs 20,050 to be close")
	}
	if AmountsClose(100, "USD", 100, "EUR") {
		t.Error("expected different currencies never to be close")
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

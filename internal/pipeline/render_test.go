package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
)

func analyzed(t *testing.T) *model.AnalysisResponse {
	t.Helper()
	resp, err := NewAnalyzer(nil, WithLogger(logging.NewNopLogger())).Analyze(context.Background(), request(pleading))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ext  string
	}{
		{"", FormatJSON, ".json"},
		{"JSON", FormatJSON, ".json"},
		{"yml", FormatYAML, ".yaml"},
		{"md", FormatMarkdown, ".md"},
		{"markdown", FormatMarkdown, ".md"},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want || got.Extension() != tt.ext {
			t.Errorf("ParseFormat(%q) = %s (%v), want %s", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestRender_JSON(t *testing.T) {
	resp := analyzed(t)

	var buf bytes.Buffer
	if err := NewRenderer(true).Render(&buf, resp, FormatJSON); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"weaknesses", "styleFindings", "contradictionReport", "semanticCoherence", "rhetoricAnalysis", "jurisprudenceAlignment", "decisionScore", "outcomePrediction"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}
	if decoded["jurisprudenceAlignment"] != nil {
		t.Error("expected absent alignment to render as null")
	}
}

func TestRender_YAML(t *testing.T) {
	resp := analyzed(t)

	var buf bytes.Buffer
	if err := NewRenderer(true).Render(&buf, resp, FormatYAML); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "decisionScore:") || !strings.Contains(out, "contradictionReport:") {
		t.Errorf("expected JSON field names in YAML output:\n%s", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("expected block style YAML")
	}
	if strings.Contains(out, `"decisionScore"`) || strings.Contains(out, `"docType"`) {
		t.Errorf("expected plain keys, got quoted JSON keys:\n%s", out)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	ds, ok := decoded["decisionScore"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected decisionScore mapping, got %T", decoded["decisionScore"])
	}
	// Integral floats decode as ints
	if fmt.Sprint(ds["score"]) != fmt.Sprint(resp.DecisionScore.Score) {
		t.Errorf("expected score %v, got %v", resp.DecisionScore.Score, ds["score"])
	}
}

func TestRender_Markdown(t *testing.T) {
	resp := analyzed(t)

	md := NewRenderer(true).Markdown(resp)
	for _, want := range []string{"# Submission Assessment", "## Score Breakdown", "## Contradictions", "## Coherence", "## Rhetoric", "not legal advice"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in markdown", want)
		}
	}
	if strings.Contains(md, "## Precedent Alignment") {
		t.Error("expected no alignment section without alignment")
	}

	if strings.Contains(NewRenderer(false).Markdown(resp), "not legal advice") {
		t.Error("expected no footer when disabled")
	}
}

func TestRenderFile(t *testing.T) {
	resp := model.EmptyResponse("", "")
	path := filepath.Join(t.TempDir(), "nested", "report.md")

	if err := NewRenderer(false).RenderFile(resp, path, FormatMarkdown); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "0.00/100 (baja)") {
		t.Errorf("unexpected markdown:\n%s", data)
	}
}

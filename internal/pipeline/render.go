package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/score"
)

// Format is a report output format
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, yaml/yml and markdown/md
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (supported: json, yaml, markdown)", s)
	}
}

// Extension returns the file extension for a format, with the dot
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

// Renderer writes analysis responses
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer; the footer only applies to Markdown
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// Render writes resp to w in the given format
func (r *Renderer) Render(w io.Writer, resp *model.AnalysisResponse, format Format) error {
	switch format {
	case FormatYAML:
		return r.renderYAML(w, resp)
	case FormatMarkdown:
		_, err := io.WriteString(w, r.Markdown(resp))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}

// RenderFile writes resp to path, creating parent directories
func (r *Renderer) RenderFile(resp *model.AnalysisResponse, path string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, resp, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// renderYAML goes through JSON so field names match the JSON contract
func (r *Renderer) renderYAML(w io.Writer, resp *model.AnalysisResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("convert report to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles inherited from JSON
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Markdown renders a human-readable report
func (r *Renderer) Markdown(resp *model.AnalysisResponse) string {
	var b strings.Builder
	ds := resp.DecisionScore

	b.WriteString("# Submission Assessment\n\n")
	fmt.Fprintf(&b, "**Decision score:** %.2f/100 (%s)  \n", ds.Score, ds.Bucket)
	fmt.Fprintf(&b, "**Document type:** %s (%s", ds.Meta.DocType, ds.Meta.DocTypeSource)
	if ds.Meta.DocTypeSource != score.DocTypeExplicit {
		fmt.Fprintf(&b, ", confidence %.2f", ds.Meta.DocTypeConfidence)
	}
	b.WriteString(")  \n")
	if resp.Jurisdiction != "" {
		fmt.Fprintf(&b, "**Jurisdiction:** %s  \n", resp.Jurisdiction)
	}
	op := resp.OutcomePrediction
	fmt.Fprintf(&b, "**Outcome estimate:** %.0f%% (risk %s, profile %s)\n\n", op.Probability*100, op.RiskLevel, op.JudgeProfile)

	b.WriteString("## Score Breakdown\n\n")
	b.WriteString("| Term | Value |\n|---|---|\n")
	bd := ds.Breakdown
	fmt.Fprintf(&b, "| Pretension / norm / motivation / evidence | %d / %d / %d / %d |\n", bd.Pretension, bd.NormCited, bd.Motivation, bd.Evidence)
	fmt.Fprintf(&b, "| Procedural risk | %.2f |\n", bd.ProceduralRisk)
	fmt.Fprintf(&b, "| Core score | %.3f |\n", bd.CoreScore)
	fmt.Fprintf(&b, "| Jurisprudence score | %.3f |\n", bd.JurisprudenceScore)
	fmt.Fprintf(&b, "| Base score | %.2f |\n", bd.BaseScore)
	fmt.Fprintf(&b, "| Penalties | -%.2f |\n", ds.Penalties.Total)
	fmt.Fprintf(&b, "| Bonus | +%.2f |\n\n", ds.Bonus)

	if len(op.KeyFactors) > 0 {
		b.WriteString("## Key Factors\n\n")
		for _, f := range op.KeyFactors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if len(resp.Weaknesses) > 0 {
		b.WriteString("## Argument Weaknesses\n\n")
		for _, w := range resp.Weaknesses {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", w.Label, w.Severity, w.Suggestion)
		}
		b.WriteString("\n")
	}

	if entries := resp.ContradictionReport.Contradictions; len(entries) > 0 {
		fmt.Fprintf(&b, "## Contradictions (risk index %d)\n\n", resp.ContradictionReport.Summary.RiskIndex)
		for _, c := range entries {
			fmt.Fprintf(&b, "### %s · %s · %s (%.2f)\n\n", c.Type, c.Topic, c.Severity, c.Confidence)
			fmt.Fprintf(&b, "> %s\n>\n> %s\n\n", c.Claims[0].Text, c.Claims[1].Text)
			fmt.Fprintf(&b, "%s  \n*%s*\n\n", c.WhyItMatters, c.FixSuggestion)
		}
	}

	if findings := resp.SemanticCoherence.Findings; len(findings) > 0 {
		fmt.Fprintf(&b, "## Coherence (risk index %d)\n\n", resp.SemanticCoherence.Summary.RiskIndex)
		for _, f := range findings {
			fmt.Fprintf(&b, "- **%s** (%s, %.2f): %s *%s*\n", f.Type, f.Severity, f.Confidence, f.WhyItMatters, f.FixSuggestion)
		}
		b.WriteString("\n")
	}

	rs := resp.RhetoricAnalysis.Summary
	b.WriteString("## Rhetoric\n\n")
	fmt.Fprintf(&b, "Score %.1f · rhythm %.1f · structure %.1f · connector density %.3f\n\n", rs.Score, rs.RhythmIndex, rs.StructureIndex, rs.ConnectorDensity)
	for _, f := range resp.RhetoricAnalysis.Findings {
		fmt.Fprintf(&b, "- %s (%s): %.3f > %.3f\n", f.Label, f.Severity, f.Value, f.Limit)
	}
	if len(resp.RhetoricAnalysis.Findings) > 0 {
		b.WriteString("\n")
	}

	if len(resp.StyleFindings) > 0 {
		b.WriteString("## Court Style\n\n")
		for _, s := range resp.StyleFindings {
			fmt.Fprintf(&b, "- **%s**", s.Label)
			if len(s.Examples) > 0 {
				fmt.Fprintf(&b, ": %s", strings.Join(s.Examples, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if al := resp.JurisprudenceAlignment; al != nil {
		fmt.Fprintf(&b, "## Precedent Alignment (best %.4f)\n\n", al.BestScore)
		for _, m := range al.Matches {
			fmt.Fprintf(&b, "- %s: %.4f\n", m.ID, m.Score)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Deterministic drafting-quality assessment. It does not judge the merits of the case ")
		b.WriteString("and is not legal advice.*\n")
	}

	return b.String()
}

// RenderSummary prints a one-line summary, as used for progress output
func (r *Renderer) RenderSummary(w io.Writer, name string, resp *model.AnalysisResponse) {
	fmt.Fprintf(w, "✓ %s: %.2f/100 (%s) · contradictions %d · coherence %d · weaknesses %d\n",
		name,
		resp.DecisionScore.Score,
		resp.DecisionScore.Bucket,
		len(resp.ContradictionReport.Contradictions),
		len(resp.SemanticCoherence.Findings),
		len(resp.Weaknesses),
	)
}

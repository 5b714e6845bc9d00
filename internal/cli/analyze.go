package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/pipeline"
)

var (
	userID         string
	caseID         string
	docType        string
	jurisdiction   string
	outFormat      string
	outPath        string
	useEmbeddings  bool
	minJurisScore  float64
	withPrecedents bool
	corpusPath     string
	noCache        bool
	noFooter       bool
	timeout        time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|->",
	Short: "Assess a single legal submission",
	Long: `Analyze reads one submission and reports:
- Argument weaknesses and court style findings
- Factual contradictions (temporal, numeric, negation, status)
- Semantic coherence between facts, law and requests
- Rhetoric metrics
- A decision score with its breakdown and an outcome estimate

The submission may be a plain text or HTML file, an http(s) URL, or "-" for stdin.

Example:
  alegato analyze demanda.txt
  alegato analyze apelacion.html --doc-type appeal --format markdown --out report.md
  alegato analyze demanda.txt --precedents --corpus precedents.yaml --user u1`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Request flags
	analyzeCmd.Flags().StringVar(&userID, "user", "", "user id (scopes precedent visibility)")
	analyzeCmd.Flags().StringVar(&caseID, "case", "", "case id (default: document name)")
	analyzeCmd.Flags().StringVar(&docType, "doc-type", "", "document type (pleading, appeal); inferred when empty")
	analyzeCmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "jurisdiction code")

	// Output flags
	analyzeCmd.Flags().StringVar(&outFormat, "format", "", "output format (json, yaml, markdown)")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Precedent flags
	analyzeCmd.Flags().BoolVar(&withPrecedents, "precedents", false, "enable precedent alignment")
	analyzeCmd.Flags().StringVar(&corpusPath, "corpus", "", "precedent corpus file (YAML or JSON) for the memory index")
	analyzeCmd.Flags().Float64Var(&minJurisScore, "min-juris-score", 0, "minimum precedent similarity (default from config)")
	analyzeCmd.Flags().BoolVar(&useEmbeddings, "embeddings-contradictions", false, "annotate contradictions with embedding similarity")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
}

// applyFlags overlays command line flags on the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *model.Config) (pipeline.Format, error) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = outFormat
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if withPrecedents {
		cfg.Precedent.Enabled = true
	}
	if corpusPath != "" {
		cfg.Precedent.CorpusPath = corpusPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return pipeline.ParseFormat(cfg.Output.Format)
}

// requestTemplate builds the request fields shared by every analyzed document
func requestTemplate(cmd *cobra.Command) model.AnalysisRequest {
	req := model.AnalysisRequest{
		UserID:                         userID,
		CaseID:                         caseID,
		DocType:                        docType,
		Jurisdiction:                   jurisdiction,
		UseEmbeddingsForContradictions: useEmbeddings,
	}
	if cmd.Flags().Changed("min-juris-score") {
		v := minJurisScore
		req.MinJurisScore = &v
	}
	return req
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", input)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	eng, err := buildEngine(ctx, cfg, logger, requestTemplate(cmd))
	if err != nil {
		return err
	}
	defer eng.Close()

	var resp *model.AnalysisResponse
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		req := requestTemplate(cmd)
		req.Text = string(data)
		resp, err = eng.analyzer.Analyze(ctx, req)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
	} else {
		resp, err = eng.analyzer.AnalyzeFile(ctx, input)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if cfg.Output.Verbose {
		renderer.RenderSummary(os.Stderr, input, resp)
	}

	if outPath != "" {
		if err := renderer.RenderFile(resp, outPath, format); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Report written: %s\n", outPath)
	} else if err := renderer.Render(os.Stdout, resp, format); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if eng.metrics != nil && cfg.Metrics.TextfilePath != "" {
		if err := eng.metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

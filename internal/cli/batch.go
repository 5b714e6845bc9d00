package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/pipeline"
	"github.com/ppiankov/alegato/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Assess many submissions in parallel",
	Long: `Batch analyzes many submissions concurrently:
- Read every .txt/.html file under a directory, or paths from a list file
  (one per line, # comments allowed, URLs accepted)
- Analyze them with a configurable number of workers
- Write one report per submission into the output directory

Example:
  alegato batch ./escritos
  alegato batch escritos.txt --concurrency 8 --output-dir ./reports --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./alegato-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with analyze
	batchCmd.Flags().StringVar(&userID, "user", "", "user id (scopes precedent visibility)")
	batchCmd.Flags().StringVar(&docType, "doc-type", "", "document type (pleading, appeal); inferred when empty")
	batchCmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "jurisdiction code")
	batchCmd.Flags().StringVar(&outFormat, "format", "", "output format (json, yaml, markdown)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&withPrecedents, "precedents", false, "enable precedent alignment")
	batchCmd.Flags().StringVar(&corpusPath, "corpus", "", "precedent corpus file (YAML or JSON) for the memory index")
	batchCmd.Flags().Float64Var(&minJurisScore, "min-juris-score", 0, "minimum precedent similarity (default from config)")
	batchCmd.Flags().BoolVar(&useEmbeddings, "embeddings-contradictions", false, "annotate contradictions with embedding similarity")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := applyFlags(cmd, cfg)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}

	baseLogger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = baseLogger.Sync() }()

	runID := uuid.NewString()
	logger := baseLogger.With(logging.String("run_id", runID))

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Alegato Batch Assessment\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Run:          %s\n", runID)
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Format:       %s\n", format)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	paths, err := batchInputs(input)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no submissions found in %s", input)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eng, err := buildEngine(ctx, cfg, logger, requestTemplate(cmd))
	if err != nil {
		return err
	}
	defer eng.Close()

	fmt.Fprintf(os.Stderr, "✓ Loaded %d submissions\n", len(paths))
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(eng.analyzer, cfg.Concurrency.BatchWorkers)
	results := processor.ProcessFiles(ctx, paths)

	renderer := newBatchWriter(outputDir, format, cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		path, err := renderer.write(result.Path, result.Response)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s → %s (score: %.2f/100, %s)\n",
			result.Path, filepath.Base(path), result.Response.DecisionScore.Score, result.Elapsed.Round(time.Millisecond))
	}

	logger.Info("batch complete",
		logging.Int("total", len(results)),
		logging.Int("success", successCount),
		logging.Int("failures", failureCount),
	)

	if eng.metrics != nil && cfg.Metrics.TextfilePath != "" {
		if err := eng.metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ failed to write metrics: %v\n", err)
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d submissions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d submissions failed", failureCount)
	}
	return nil
}

// batchInputs expands a directory into its submission files, or reads a list file
func batchInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return worker.CollectFiles(input)
	}
	return worker.ReadPathsFromFile(input)
}

// sanitizeFilename turns a path or URL into a safe report file stem
func sanitizeFilename(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"&", "_",
		"=", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." || s == ".." {
		s = "submission"
	}
	return s
}

// batchWriter renders batch reports under one directory, keeping names unique
type batchWriter struct {
	dir      string
	format   pipeline.Format
	renderer *pipeline.Renderer
	seen     map[string]int
}

func newBatchWriter(dir string, format pipeline.Format, includeFooter bool) *batchWriter {
	return &batchWriter{
		dir:      dir,
		format:   format,
		renderer: pipeline.NewRenderer(includeFooter),
		seen:     make(map[string]int),
	}
}

// write renders resp for the submission at src and returns the report path
func (w *batchWriter) write(src string, resp *model.AnalysisResponse) (string, error) {
	stem := sanitizeFilename(src)
	w.seen[stem]++
	if n := w.seen[stem]; n > 1 {
		stem = fmt.Sprintf("%s-%d", stem, n)
	}

	path := filepath.Join(w.dir, stem+w.format.Extension())
	if err := w.renderer.RenderFile(resp, path, w.format); err != nil {
		return "", err
	}
	return path, nil
}

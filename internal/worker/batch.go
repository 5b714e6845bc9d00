package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/source"
)

// FileAnalyzer analyzes one submission file
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.AnalysisResponse, error)
}

// DocumentJob analyzes one file of a batch
type DocumentJob struct {
	Index    int
	Path     string
	Analyzer FileAnalyzer
}

// Execute runs the analysis
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	resp, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &DocumentResult{
		Index:    j.Index,
		Path:     j.Path,
		Response: resp,
		Error:    err,
		Elapsed:  time.Since(start),
	}
}

// DocumentResult is the outcome of one DocumentJob
type DocumentResult struct {
	Index    int
	Path     string
	Response *model.AnalysisResponse
	Error    error
	Elapsed  time.Duration
}

// GetError returns the analysis error
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many files concurrently
type BatchProcessor struct {
	analyzer    FileAnalyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer FileAnalyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessFiles analyzes every path and returns results in input order.
// Files skipped because ctx was cancelled are reported with ctx's error.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &DocumentJob{Index: i, Path: path, Analyzer: b.analyzer}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	raw := pool.Run(jobs)

	out := make([]*DocumentResult, len(paths))
	for _, r := range raw {
		dr := r.(*DocumentResult)
		out[dr.Index] = dr
	}
	for i, r := range out {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &DocumentResult{Index: i, Path: paths[i], Error: fmt.Errorf("not analyzed: %w", err)}
	}

	return out
}

// ProcessList reads paths from a list file and analyzes them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*DocumentResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads file paths (one per line). Relative paths resolve
// against the list file's directory, URLs are kept as is; blank lines and # comments are skipped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) && !source.IsURL(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// CollectFiles walks dir and returns every supported submission file, sorted
func CollectFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if source.IsSupported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

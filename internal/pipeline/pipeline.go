// Package pipeline runs every engine over one submission and assembles the
// assessment bundle.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/alegato/internal/coherence"
	"github.com/ppiankov/alegato/internal/contradiction"
	"github.com/ppiankov/alegato/internal/critique"
	"github.com/ppiankov/alegato/internal/extract"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/metrics"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/outcome"
	"github.com/ppiankov/alegato/internal/precedent"
	"github.com/ppiankov/alegato/internal/rhetoric"
	"github.com/ppiankov/alegato/internal/score"
	"github.com/ppiankov/alegato/internal/source"
)

// Engine names used in metrics and logs
const (
	EngineWeakness      = "weakness"
	EngineStyle         = "style"
	EngineContradiction = "contradiction"
	EngineCoherence     = "coherence"
	EngineRhetoric      = "rhetoric"
	EngineAlignment     = "alignment"
	EngineScore         = "score"
	EngineOutcome       = "outcome"
)

// SimilarityScorer compares two texts; precedent.Service implements it
type SimilarityScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Analyzer orchestrates the engines for one submission at a time. It is safe
// for concurrent use.
type Analyzer struct {
	extractor  *extract.ClaimExtractor
	detector   *contradiction.Detector
	coherence  *coherence.Engine
	rhetoric   *rhetoric.Analyzer
	scorer     *score.Scorer
	predictor  *outcome.Predictor
	aligner    precedent.Aligner
	similarity SimilarityScorer
	registry   *source.Registry
	fetcher    *source.Fetcher
	template   model.AnalysisRequest
	config     *model.Config
	logger     logging.Logger
	metrics    metrics.Recorder
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithAligner enables precedent alignment. When the aligner can also compare
// texts it is used for contradiction similarity.
func WithAligner(a precedent.Aligner) Option {
	return func(an *Analyzer) {
		an.aligner = a
		if s, ok := a.(SimilarityScorer); ok && an.similarity == nil {
			an.similarity = s
		}
	}
}

// WithSimilarity sets the scorer used for useEmbeddingsForContradictions
func WithSimilarity(s SimilarityScorer) Option {
	return func(an *Analyzer) { an.similarity = s }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(an *Analyzer) { an.logger = l }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m metrics.Recorder) Option {
	return func(an *Analyzer) { an.metrics = m }
}

// WithRequestTemplate sets the request fields applied to every AnalyzeFile call
func WithRequestTemplate(req model.AnalysisRequest) Option {
	return func(an *Analyzer) { an.template = req }
}

// NewAnalyzer creates an analyzer from configuration
func NewAnalyzer(cfg *model.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	a := &Analyzer{
		extractor: extract.NewClaimExtractor(cfg.Analysis.NegationWindow),
		rhetoric:  rhetoric.NewAnalyzer(),
		scorer:    score.NewScorer(),
		predictor: outcome.NewPredictor(),
		registry:  source.NewRegistry(),
		config:    cfg,
		metrics:   metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger = logging.OrDefault(a.logger).Named("pipeline")
	a.detector = contradiction.NewDetector(cfg.Analysis.MaxGroupSize, a.logger)
	a.coherence = coherence.NewEngine(a.logger)
	a.fetcher = source.NewFetcher(cfg.HTTP, a.registry)
	return a
}

// Analyze runs every engine over req.Text. Blank text yields the fixed empty
// response. The only failing dependency, precedent alignment, degrades to an
// absent alignment; Analyze itself fails only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResponse, error) {
	docType := req.DocType
	if docType == "" {
		docType = a.config.Analysis.DefaultDocType
	}
	jurisdiction := req.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = a.config.Analysis.DefaultJurisdiction
	}

	if strings.TrimSpace(req.Text) == "" {
		a.metrics.DocumentAnalyzed("empty")
		return model.EmptyResponse(docType, jurisdiction), nil
	}

	text := req.Text
	spans := req.Spans
	if len(spans) == 0 {
		spans = source.SplitSections(text)
	}

	var (
		weaknesses     []model.Weakness
		styleFindings  []model.StyleFinding
		contradictions model.ContradictionReport
		coherenceRep   model.CoherenceReport
		rhetoricRep    model.RhetoricReport
		alignment      *model.PrecedentAlignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.timed(EngineWeakness, func() { weaknesses = critique.DetectWeaknesses(text) })
		return nil
	})
	g.Go(func() error {
		a.timed(EngineStyle, func() { styleFindings = critique.CritiqueStyle(text) })
		return nil
	})
	g.Go(func() error {
		a.timed(EngineContradiction, func() {
			contradictions = a.detector.Detect(a.extractor.Extract(text, spans))
		})
		return nil
	})
	g.Go(func() error {
		a.timed(EngineCoherence, func() { coherenceRep = a.coherence.Analyze(text, spans) })
		return nil
	})
	g.Go(func() error {
		a.timed(EngineRhetoric, func() { rhetoricRep = a.rhetoric.Analyze(text) })
		return nil
	})
	g.Go(func() error {
		a.timed(EngineAlignment, func() { alignment = a.align(gctx, req, jurisdiction) })
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		a.metrics.DocumentAnalyzed("error")
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	if req.UseEmbeddingsForContradictions {
		a.annotateSimilarity(ctx, text, contradictions.Contradictions)
	}

	var decision model.DecisionScore
	a.timed(EngineScore, func() {
		decision = a.scorer.Calculate(score.Input{
			Text:           text,
			DocType:        docType,
			Weaknesses:     weaknesses,
			StyleFindings:  styleFindings,
			Contradictions: contradictions,
			Coherence:      coherenceRep,
			Rhetoric:       &rhetoricRep,
			Alignment:      alignment,
		})
	})

	var prediction model.OutcomePrediction
	a.timed(EngineOutcome, func() {
		prediction = a.predictor.Predict(outcome.Input{
			Score:          decision,
			Contradictions: contradictions,
			Coherence:      coherenceRep,
			Rhetoric:       &rhetoricRep,
		})
	})

	resp := &model.AnalysisResponse{
		DocType:                string(decision.Meta.DocType),
		Jurisdiction:           jurisdiction,
		Weaknesses:             weaknesses,
		StyleFindings:          styleFindings,
		ContradictionReport:    contradictions,
		SemanticCoherence:      coherenceRep,
		RhetoricAnalysis:       rhetoricRep,
		JurisprudenceAlignment: alignment,
		DecisionScore:          decision,
		OutcomePrediction:      prediction,
		Principles:             model.DefaultPrinciples(),
	}

	a.record(resp)
	a.logger.Debug("submission analyzed",
		logging.String("case_id", req.CaseID),
		logging.String("doc_type", resp.DocType),
		logging.Float64("score", decision.Score),
		logging.Int("contradictions", len(contradictions.Contradictions)),
		logging.Int("coherence_findings", len(coherenceRep.Findings)),
		logging.Bool("aligned", alignment != nil),
	)
	return resp, nil
}

// AnalyzeFile loads a file or URL and analyzes it with the request template
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*model.AnalysisResponse, error) {
	doc, err := a.Load(ctx, path)
	if err != nil {
		a.metrics.DocumentAnalyzed("error")
		return nil, err
	}

	req := a.template
	req.Text = doc.Text
	req.Spans = doc.Spans
	if req.CaseID == "" {
		req.CaseID = doc.Name
	}
	return a.Analyze(ctx, req)
}

// Load reads a submission from disk, or over HTTP when path is a URL
func (a *Analyzer) Load(ctx context.Context, path string) (*source.Document, error) {
	if source.IsURL(path) {
		return a.fetcher.FetchWithRetry(ctx, path)
	}
	return a.registry.LoadFile(path)
}

func (a *Analyzer) align(ctx context.Context, req model.AnalysisRequest, jurisdiction string) *model.PrecedentAlignment {
	if a.aligner == nil {
		a.metrics.AlignmentOutcome("skipped")
		return nil
	}

	if timeout := a.config.Precedent.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := a.aligner.Align(ctx, precedent.Request{
		QueryText:    req.Text,
		UserID:       req.UserID,
		CaseID:       req.CaseID,
		Jurisdiction: jurisdiction,
		TopK:         a.config.Precedent.TopK,
		MinScore:     req.MinJurisScore,
	})
	if err != nil {
		a.metrics.AlignmentOutcome("error")
		a.logger.Warn("precedent alignment unavailable",
			logging.String("case_id", req.CaseID),
			logging.Err(err),
		)
		return nil
	}
	if result == nil {
		a.metrics.AlignmentOutcome("absent")
		return nil
	}
	a.metrics.AlignmentOutcome("found")
	return result
}

// annotateSimilarity attaches evidence-only similarity to each entry; it never
// changes confidence or severity
func (a *Analyzer) annotateSimilarity(ctx context.Context, text string, entries []model.ContradictionEntry) {
	if a.similarity == nil || len(entries) == 0 {
		return
	}
	for i := range entries {
		left := sourceText(text, entries[i].Claims[0])
		right := sourceText(text, entries[i].Claims[1])
		sim, err := a.similarity.Similarity(ctx, left, right)
		if err != nil {
			a.logger.Warn("contradiction similarity unavailable", logging.Err(err))
			return
		}
		entries[i].SemanticSimilarity = &sim
	}
}

// sourceText returns the full sentence behind ref; ref.Text may be shortened
// for display
func sourceText(text string, ref model.ClaimRef) string {
	if ref.Start >= 0 && ref.Start < ref.End && ref.End <= len(text) {
		return text[ref.Start:ref.End]
	}
	return ref.Text
}

func (a *Analyzer) timed(engine string, fn func()) {
	start := time.Now()
	fn()
	a.metrics.ObserveEngine(engine, time.Since(start))
}

func (a *Analyzer) record(resp *model.AnalysisResponse) {
	count := func(engine string, severities []model.Severity) {
		var s model.SeveritySummary
		for _, sev := range severities {
			s.Add(sev)
		}
		a.metrics.AddFindings(engine, string(model.SeverityCritical), s.Critical)
		a.metrics.AddFindings(engine, string(model.SeverityHigh), s.High)
		a.metrics.AddFindings(engine, string(model.SeverityMedium), s.Medium)
		a.metrics.AddFindings(engine, string(model.SeverityLow), s.Low)
	}

	var sev []model.Severity
	for _, w := range resp.Weaknesses {
		sev = append(sev, w.Severity)
	}
	count(EngineWeakness, sev)

	sev = sev[:0]
	for _, c := range resp.ContradictionReport.Contradictions {
		sev = append(sev, c.Severity)
	}
	count(EngineContradiction, sev)

	sev = sev[:0]
	for _, f := range resp.SemanticCoherence.Findings {
		sev = append(sev, f.Severity)
	}
	count(EngineCoherence, sev)

	sev = sev[:0]
	for _, f := range resp.RhetoricAnalysis.Findings {
		sev = append(sev, f.Severity)
	}
	count(EngineRhetoric, sev)

	// Style findings carry no severity
	a.metrics.AddFindings(EngineStyle, "info", len(resp.StyleFindings))

	a.metrics.ObserveScore(resp.DecisionScore.Score)
	a.metrics.DocumentAnalyzed("ok")
}

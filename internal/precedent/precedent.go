// Package precedent aligns a submission with prior case law by embedding
// similarity.
//
// A Service pairs an Embedder (OpenAI or the local hashing embedder) with an
// Index (an in-memory corpus or a Milvus collection). Only the best matches
// above a minimum score are reported; when nothing qualifies the alignment is
// absent rather than zero.
package precedent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/alegato/internal/cache"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/worker"
)

// Defaults applied when a request leaves TopK or MinScore unset
const (
	DefaultTopK     = 5
	DefaultMinScore = 0.5
)

var (
	// ErrNoEmbedder is returned when alignment is requested without an embedder
	ErrNoEmbedder = errors.New("precedent: no embedder configured")
	// ErrEmptyCorpus is returned when there is nothing to search
	ErrEmptyCorpus = errors.New("precedent: corpus is empty")
)

// Request is one alignment query
type Request struct {
	QueryText    string
	UserID       string
	CaseID       string
	Jurisdiction string
	TopK         int
	MinScore     *float64 // nil uses the service threshold; 0 disables it
}

// Aligner retrieves the precedents closest to a submission
type Aligner interface {
	Align(ctx context.Context, req Request) (*model.PrecedentAlignment, error)
}

// Embedder turns texts into vectors, one per input, in order
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Filter restricts which precedents a user may see
type Filter struct {
	UserID       string
	Jurisdiction string
}

// Hit is one index result before thresholding
type Hit struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Index searches stored precedent vectors
type Index interface {
	Search(ctx context.Context, vector []float32, filter Filter, topK int) ([]Hit, error)
}

// Service is the reference Aligner
type Service struct {
	embedder Embedder
	index    Index
	topK     int
	minScore float64
	logger   logging.Logger
}

// NewService creates an alignment service. Non-positive topK or minScore use
// the package defaults.
func NewService(embedder Embedder, index Index, topK int, minScore float64, logger logging.Logger) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Service{
		embedder: embedder,
		index:    index,
		topK:     topK,
		minScore: minScore,
		logger:   logging.OrDefault(logger).Named("precedent"),
	}
}

// Align returns the best precedents above the score threshold, or nil when the
// request has no user or query text, or when no precedent qualifies.
func (s *Service) Align(ctx context.Context, req Request) (*model.PrecedentAlignment, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.QueryText) == "" {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, ErrNoEmbedder
	}
	if s.index == nil {
		return nil, ErrEmptyCorpus
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}
	minScore := s.minScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	vectors, err := s.embedder.Embed(ctx, []string{req.QueryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	hits, err := s.index.Search(ctx, vectors[0], Filter{UserID: req.UserID, Jurisdiction: req.Jurisdiction}, topK)
	if err != nil {
		return nil, fmt.Errorf("search precedents: %w", err)
	}

	matches := make([]model.PrecedentMatch, 0, len(hits))
	for _, h := range hits {
		if h.Score < minScore {
			continue
		}
		matches = append(matches, model.PrecedentMatch{
			ID:       h.ID,
			Score:    model.Round(model.Clamp01(h.Score), 4),
			Metadata: h.Metadata,
		})
	}

	s.logger.Debug("precedent search",
		logging.String("case_id", req.CaseID),
		logging.Int("hits", len(hits)),
		logging.Int("matches", len(matches)),
		logging.Float64("min_score", minScore),
	)

	if len(matches) == 0 {
		return nil, nil
	}

	sortMatches(matches)
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return &model.PrecedentAlignment{
		TopK:      topK,
		BestScore: matches[0].Score,
		Matches:   matches,
	}, nil
}

// Similarity embeds both texts and returns their cosine similarity
func (s *Service) Similarity(ctx context.Context, a, b string) (float64, error) {
	if s.embedder == nil {
		return 0, ErrNoEmbedder
	}
	vectors, err := s.embedder.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("embed pair: %w", err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("embed pair: expected 2 vectors, got %d", len(vectors))
	}
	return model.Round(Cosine(vectors[0], vectors[1]), 4), nil
}

func sortMatches(matches []model.PrecedentMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
}

// Cosine returns the cosine similarity of a and b, 0 for empty, zero or
// mismatched vectors
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// CachedEmbedder memoizes vectors and rate-limits calls to the wrapped embedder
type CachedEmbedder struct {
	inner   Embedder
	cache   cache.Cache
	limiter *worker.Limiter
	ttl     time.Duration
}

// NewCachedEmbedder wraps inner. A nil cache or limiter disables that layer.
func NewCachedEmbedder(inner Embedder, c cache.Cache, limiter *worker.Limiter, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner:   inner,
		cache:   c,
		limiter: limiter,
		ttl:     ttl,
	}
}

// Name returns the wrapped embedder's name
func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// Embed serves cached vectors and sends only the misses to the wrapped embedder
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []int

	for i, text := range texts {
		if v, ok := e.lookup(text); ok {
			out[i] = v
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.inner.Name()); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	batch := make([]string, len(missing))
	for j, i := range missing {
		batch[j] = texts[i]
	}
	vectors, err := e.inner.Embed(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%s: expected %d vectors, got %d", e.inner.Name(), len(batch), len(vectors))
	}

	for j, i := range missing {
		out[i] = vectors[j]
		e.store(texts[i], vectors[j])
	}
	return out, nil
}

func (e *CachedEmbedder) key(text string) string {
	return cache.CacheKey("embed", e.inner.Name(), text)
}

func (e *CachedEmbedder) lookup(text string) ([]float32, bool) {
	if e.cache == nil {
		return nil, false
	}
	data, ok := e.cache.Get(e.key(text))
	if !ok {
		return nil, false
	}
	var v []float32
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}

// store is best effort; a failed write only costs a future miss
func (e *CachedEmbedder) store(text string, v []float32) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = e.cache.Set(e.key(text), data, e.ttl)
}

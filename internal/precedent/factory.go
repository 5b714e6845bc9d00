package precedent

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/alegato/internal/cache"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/worker"
)

// NewEmbedder creates the embedder named by cfg.Embedder
func NewEmbedder(cfg model.PrecedentConfig, httpCfg model.HTTPConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Embedder) {
	case "", "hash":
		return NewHashEmbedder(cfg.Dimensions), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAI, httpCfg)
	default:
		return nil, fmt.Errorf("unknown embedder: %s (supported: hash, openai)", cfg.Embedder)
	}
}

// NewIndex creates the index named by cfg.Index. The memory index embeds the
// corpus at cfg.CorpusPath up front.
func NewIndex(ctx context.Context, cfg model.PrecedentConfig, embedder Embedder) (Index, error) {
	switch strings.ToLower(cfg.Index) {
	case "", "memory":
		if cfg.CorpusPath == "" {
			return nil, fmt.Errorf("precedent.corpus_path is required for the memory index: %w", ErrEmptyCorpus)
		}
		entries, err := LoadCorpus(cfg.CorpusPath)
		if err != nil {
			return nil, err
		}
		return NewMemoryIndex(ctx, embedder, entries)
	case "milvus":
		return NewMilvusIndex(ctx, cfg.Milvus)
	default:
		return nil, fmt.Errorf("unknown precedent index: %s (supported: memory, milvus)", cfg.Index)
	}
}

// Build wires the configured embedder, embedding cache, rate limiter and index
// into a Service. c may be nil.
func Build(ctx context.Context, cfg model.PrecedentConfig, httpCfg model.HTTPConfig, c cache.Cache, cacheTTL time.Duration, logger logging.Logger) (*Service, error) {
	base, err := NewEmbedder(cfg, httpCfg)
	if err != nil {
		return nil, err
	}

	limiter := worker.NewLimiter(cfg.RatePerSecond, cfg.Burst)
	embedder := NewCachedEmbedder(base, c, limiter, cacheTTL)

	index, err := NewIndex(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}

	logging.OrDefault(logger).Info("precedent alignment enabled",
		logging.String("embedder", embedder.Name()),
		logging.String("index", cfg.Index),
	)

	return NewService(embedder, index, cfg.TopK, cfg.MinScore, logger), nil
}

// Close releases the index connection, if it holds one
func (s *Service) Close() error {
	if closer, ok := s.index.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

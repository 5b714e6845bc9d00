package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/alegato/internal/cache"
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/metrics"
	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/pipeline"
	"github.com/ppiankov/alegato/internal/precedent"
)

// engine bundles an analyzer with what has to be released after a run
type engine struct {
	analyzer *pipeline.Analyzer
	metrics  *metrics.Metrics
	closers  []func() error
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			logging.Default().Warn("release resource", logging.Err(err))
		}
	}
}

// buildEngine wires the analyzer with optional precedent alignment, the
// embedding cache and metrics, as configured
func buildEngine(ctx context.Context, cfg *model.Config, logger logging.Logger, template model.AnalysisRequest) (*engine, error) {
	e := &engine{}
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithRequestTemplate(template),
	}

	if cfg.Metrics.Enabled {
		e.metrics = metrics.New()
		opts = append(opts, pipeline.WithMetrics(e.metrics))
	}

	if cfg.Precedent.Enabled {
		var c cache.Cache
		if cfg.Cache.Enabled {
			layered, closeCache, err := buildCache(ctx, cfg.Cache, logger)
			if err != nil {
				e.Close()
				return nil, err
			}
			c = layered
			if closeCache != nil {
				e.closers = append(e.closers, closeCache)
			}
		}

		svc, err := precedent.Build(ctx, cfg.Precedent, cfg.HTTP, c, cfg.Cache.DiskTTL, logger)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("precedent alignment: %w", err)
		}
		e.closers = append(e.closers, svc.Close)
		opts = append(opts, pipeline.WithAligner(svc))

		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Precedent alignment enabled (%s, %s)\n", cfg.Precedent.Embedder, cfg.Precedent.Index)
		}
	}

	e.analyzer = pipeline.NewAnalyzer(cfg, opts...)
	return e, nil
}

// buildCache stacks memory, redis (when an address is set) and disk layers.
// An unreachable redis is logged and skipped.
func buildCache(ctx context.Context, cfg model.CacheConfig, logger logging.Logger) (cache.Cache, func() error, error) {
	var shared *cache.RedisCache
	var closer func() error

	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.DiskTTL,
		})
		if err != nil {
			logger.Warn("shared cache unavailable, continuing without it",
				logging.String("addr", cfg.Redis.Addr),
				logging.Err(err),
			)
		} else {
			shared = rc
			closer = rc.Close
		}
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			if closer != nil {
				_ = closer()
			}
			return nil, nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	return cache.NewDefaultCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL, shared), closer, nil
}

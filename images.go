package pptgen

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// ImageProvider fetches image bytes for a free-text query.
type ImageProvider interface {
	Fetch(ctx context.Context, query string) ([]byte, error)
}

// ResolvedImage is the outcome of one image request. Data is never nil
// when resolution ran: failures fall back to the configured placeholder
// image rather than failing the render.
type ResolvedImage struct {
	Data         []byte
	UsedFallback bool
}

const imageCacheSize = 128

// ImageResolver turns image queries into bytes, concurrently and with a
// deck-wide cache. It is safe for concurrent use across renders.
type ImageResolver struct {
	provider ImageProvider
	fallback []byte
	cache    *lru.Cache[string, []byte]
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *Metrics
}

// NewImageResolver builds a resolver. provider may be nil, in which case
// every request resolves to the fallback image. fallback may be nil too;
// slides then simply render without a picture.
func NewImageResolver(provider ImageProvider, fallback []byte, workers int, timeout time.Duration, logger *slog.Logger, metrics *Metrics) *ImageResolver {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, _ := lru.New[string, []byte](imageCacheSize)
	return &ImageResolver{
		provider: provider,
		fallback: fallback,
		cache:    cache,
		workers:  workers,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// ResolveAll fetches every query concurrently, bounded by the worker
// limit, and returns results index-aligned with the input. Individual
// fetch failures degrade to the fallback image; only context
// cancellation aborts the whole batch.
func (r *ImageResolver) ResolveAll(ctx context.Context, queries []string) ([]ResolvedImage, error) {
	results := make([]ResolvedImage, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.resolve(ctx, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ImageResolver) resolve(ctx context.Context, query string) ResolvedImage {
	if r.provider == nil || query == "" {
		return r.fallbackImage(query, nil)
	}
	if data, ok := r.cache.Get(query); ok {
		return ResolvedImage{Data: data}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	data, err := r.provider.Fetch(fetchCtx, query)
	if err != nil || len(data) == 0 {
		return r.fallbackImage(query, err)
	}
	r.cache.Add(query, data)
	return ResolvedImage{Data: data}
}

func (r *ImageResolver) fallbackImage(query string, err error) ResolvedImage {
	if err != nil {
		r.logger.Warn("image fetch failed, using fallback",
			slog.String("query", query), slog.Any("error", err))
	}
	if r.metrics != nil {
		r.metrics.ImageFallbacks.Inc()
	}
	return ResolvedImage{Data: r.fallback, UsedFallback: true}
}

// Package pptgen renders validated slide-deck descriptions into PPTX
// packages built from a template. A Template and its layout Catalog are
// parsed once and shared; each render works on its own checkout of the
// template's parts, so a single Renderer is safe for concurrent use.
package pptgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Renderer turns DeckSpecs into PPTX bytes against one template.
type Renderer struct {
	tmpl     *Template
	catalog  *Catalog
	resolver *ImageResolver
	fit      FitPolicy
	logger   *slog.Logger
	metrics  *Metrics
}

// Option customizes a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	provider ImageProvider
	fallback []byte
	logger   *slog.Logger
	metrics  *Metrics
}

// WithImageProvider overrides the provider built from the config.
func WithImageProvider(p ImageProvider) Option {
	return func(o *rendererOptions) { o.provider = p }
}

// WithFallbackImage sets the bytes used when an image cannot be fetched.
func WithFallbackImage(data []byte) Option {
	return func(o *rendererOptions) { o.fallback = data }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *rendererOptions) { o.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(o *rendererOptions) { o.metrics = m }
}

// NewRenderer parses the template's layouts and wires the image
// pipeline. The returned renderer is immutable and safe to share.
func NewRenderer(tmpl *Template, cfg *Config, opts ...Option) (*Renderer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := BuildCatalog(tmpl)
	if err != nil {
		return nil, err
	}

	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.provider == nil && cfg.Unsplash.AccessKey != "" {
		o.provider = NewUnsplashClient(cfg.Unsplash.AccessKey)
	}
	if o.fallback == nil && cfg.Images.FallbackPath != "" {
		o.fallback, err = os.ReadFile(cfg.Images.FallbackPath)
		if err != nil {
			return nil, fmt.Errorf("read fallback image: %w", err)
		}
	}

	return &Renderer{
		tmpl:    tmpl,
		catalog: catalog,
		resolver: NewImageResolver(o.provider, o.fallback,
			cfg.Images.Workers, cfg.Images.FetchTimeout, o.logger, o.metrics),
		fit:     cfg.FitPolicy(),
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// Catalog exposes the template's layout catalog.
func (r *Renderer) Catalog() *Catalog { return r.catalog }

// Render produces a complete PPTX for one deck. Layout misses degrade
// to the content-only layout and are reported in the result; image
// failures degrade to the fallback image. Only malformed input, context
// cancellation and package assembly problems fail the render.
func (r *Renderer) Render(ctx context.Context, deck *DeckSpec) (*RenderedDeck, error) {
	start := time.Now()
	result, err := r.render(ctx, deck)
	if err != nil {
		r.metrics.observeRender("error", time.Since(start).Seconds())
		r.logger.Error("render failed",
			slog.String("deck", deck.Title), slog.Any("error", err))
		return nil, err
	}
	r.metrics.observeRender("ok", time.Since(start).Seconds())
	r.metrics.addDegraded(len(result.Degraded))
	r.logger.Info("deck rendered",
		slog.String("deck", deck.Title),
		slog.Int("slides", result.SlideCount),
		slog.Int("degraded", len(result.Degraded)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (r *Renderer) render(ctx context.Context, deck *DeckSpec) (*RenderedDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 1: resolve a layout per slide, recording degradations.
	layouts := make([]*LayoutHandle, len(deck.Slides))
	var degraded []DegradedSlide
	for i := range deck.Slides {
		h, fellBack := r.catalog.ResolveOrFallback(deck.Slides[i].Kind)
		layouts[i] = h
		if fellBack {
			degraded = append(degraded, DegradedSlide{
				Index:      i,
				Kind:       deck.Slides[i].Kind,
				LayoutUsed: h.Name,
			})
			r.logger.Warn("layout missing, slide degraded",
				slog.Int("slide", i),
				slog.String("kind", deck.Slides[i].Kind.String()),
				slog.String("layout_used", h.Name))
		}
	}

	// Stage 2: fetch images concurrently. This is the only parallel
	// stage of a render.
	var queries []string
	queryIdx := make(map[int]int) // slide index -> query position
	for i := range deck.Slides {
		s := &deck.Slides[i]
		if s.needsImage() && s.Image != nil {
			queryIdx[i] = len(queries)
			queries = append(queries, s.Image.Query)
		}
	}
	images, err := r.resolver.ResolveAll(ctx, queries)
	if err != nil {
		return nil, err
	}

	// Stage 3: bind content onto layout slots.
	bound := make([]*boundSlide, len(deck.Slides))
	for i := range deck.Slides {
		var img *ResolvedImage
		if qi, ok := queryIdx[i]; ok {
			img = &images[qi]
		}
		b, err := bindSlide(i, &deck.Slides[i], layouts[i], img, r.fit, r.catalog)
		if err != nil {
			return nil, err
		}
		bound[i] = b
	}

	// Stage 4: assemble the package on a fresh checkout.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := assemble(r.tmpl.checkout(), deck, bound)
	if err != nil {
		return nil, err
	}

	return &RenderedDeck{
		Data:       data,
		Filename:   sanitizeFilename(deck.Title) + ".pptx",
		Language:   deck.Language,
		SlideCount: len(deck.Slides),
		Degraded:   degraded,
		Structure:  deck,
	}, nil
}

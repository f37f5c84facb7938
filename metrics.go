package pptgen

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the renderer's Prometheus instrumentation. A nil
// *Metrics is valid everywhere and disables collection.
type Metrics struct {
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	DegradedSlides prometheus.Counter
	ImageFallbacks prometheus.Counter
}

// NewMetrics creates and registers the renderer metrics. Pass a custom
// Registerer in tests; prometheus.DefaultRegisterer in services.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ppt_renders_total",
			Help: "Deck renders by outcome.",
		}, []string{"status"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ppt_render_duration_seconds",
			Help:    "Wall time of a full deck render.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		DegradedSlides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ppt_degraded_slides_total",
			Help: "Slides that fell back to the content-only layout.",
		}),
		ImageFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ppt_image_fallbacks_total",
			Help: "Image fetches that resolved to the fallback image.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RendersTotal, m.RenderDuration, m.DegradedSlides, m.ImageFallbacks)
	}
	return m
}

func (m *Metrics) observeRender(status string, seconds float64) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(status).Inc()
	m.RenderDuration.Observe(seconds)
}

func (m *Metrics) addDegraded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DegradedSlides.Add(float64(n))
}

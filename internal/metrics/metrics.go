package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CatalogMetrics — счётчики каталога и трекинга.
type CatalogMetrics struct {
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	TrackingFailures *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	registry         *prometheus.Registry
}

func New() *CatalogMetrics {
	m := &CatalogMetrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog reads served from cache",
		}, []string{"op"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog reads that missed the cache",
		}, []string{"op"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_synthetic_fallbacks_total",
			Help: "Catalog reads served from the synthetic catalog",
		}, []string{"op", "reason"}),
		TrackingFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "affiliate_tracking_failures_total",
			Help: "Tracking events that could not be stored or published",
		}, []string{"kind"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP handlers",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.Fallbacks,
		m.TrackingFailures,
		m.RequestDuration,
	)

	return m
}

func (m *CatalogMetrics) CacheHit(op string) {
	m.CacheHits.WithLabelValues(op).Inc()
}

func (m *CatalogMetrics) CacheMiss(op string) {
	m.CacheMisses.WithLabelValues(op).Inc()
}

func (m *CatalogMetrics) Fallback(op, reason string) {
	m.Fallbacks.WithLabelValues(op, reason).Inc()
}

func (m *CatalogMetrics) TrackingFailure(kind string) {
	m.TrackingFailures.WithLabelValues(kind).Inc()
}

// Handler отдаёт метрики в формате Prometheus.
func (m *CatalogMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware замеряет время обработки запроса. Маршрут берётся из шаблона chi,
// чтобы id в пути не раздували число серий.
func (m *CatalogMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

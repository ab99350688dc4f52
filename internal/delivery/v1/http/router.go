package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck проверяет доступность одной зависимости.
type HealthCheck func(ctx context.Context) error

// MetricsProvider — middleware замера запросов и обработчик /metrics.
type MetricsProvider interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Router struct {
	router  *chi.Mux
	logger  logger.Logger
	metrics MetricsProvider
}

func NewRouter(router *chi.Mux, logger logger.Logger, metrics MetricsProvider) *Router {
	return &Router{router: router, logger: logger, metrics: metrics}
}

// Init регистрирует маршруты. API доступен и по историческому префиксу /api, и по /api/v1.
func (r *Router) Init(catalogUC usecase.CatalogUC, affiliateUC usecase.AffiliateUC, fallbackURL string, checks map[string]HealthCheck) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)
	r.router.Use(r.metrics.Middleware)

	r.router.Handle("/metrics", r.metrics.Handler())
	r.router.Get("/healthz", healthz(checks))

	catalogHandler := NewCatalogHandler(catalogUC, r.logger, fallbackURL)
	affiliateHandler := NewAffiliateHandler(affiliateUC, r.logger)

	for _, prefix := range []string{"/api/v1", "/api"} {
		r.router.Route(prefix, func(api chi.Router) {
			registerCatalogRoutes(api, catalogHandler)
			registerAffiliateRoutes(api, affiliateHandler)
		})
	}
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Get("/categories", h.getCategories)
	router.Get("/categories/{id}/products", h.getCategoryProducts)
	router.Get("/search", h.searchProducts)
	router.Get("/showcase", h.getShowcase)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.getProducts)
		pr.Post("/", h.ingestProduct)
		pr.Get("/search", h.filterProducts)
		pr.Get("/trending", h.getTrending)
		pr.Get("/{id}/recommendations", h.getRecommendations)
	})
}

func registerAffiliateRoutes(router chi.Router, h *AffiliateHandler) {
	router.Route("/affiliate/links", func(al chi.Router) {
		al.Post("/", h.buildLink)
		al.Post("/bulk", h.buildBulk)
		al.Post("/{linkID}/clicks", h.trackClick)
		al.Post("/{linkID}/conversions", h.recordConversion)
		al.Get("/{linkID}/stats", h.getStats)
	})
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// healthz всегда отвечает 200: при недоступной зависимости каталог деградирует, но работает.
func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		res := HealthResponse{Status: "ok", Components: make(map[string]string, len(checks))}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				res.Components[name] = "down"
				res.Status = "degraded"
				continue
			}
			res.Components[name] = "up"
		}

		WriteSuccess(w, http.StatusOK, res)
	}
}

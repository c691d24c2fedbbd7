// Package http exposes the catalog and cart over a chi router.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "cart"

// RouterConfig collects the router's collaborators.
type RouterConfig struct {
	Carts   CartService
	Catalog repository.ProductCatalog
	Health  *health.Handler
	// Tokens validates bearer tokens. When nil every request is a guest.
	Tokens     middleware.TokenValidator
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	products := NewProductHandler(cfg.Catalog, cfg.Logger)
	carts := NewCartHandler(cfg.Carts, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Tokens != nil {
			r.Use(middleware.OptionalAuth(cfg.Tokens))
		}
		r.Use(middleware.RequestLogger(cfg.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.CacheControl("public, max-age=60"))
			r.Get("/", products.ListProducts)
			r.Get("/{id}", products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(ContentTypeJSON)
			r.Use(ResolveCart)

			r.Get("/", carts.GetCart)
			r.Delete("/", carts.ClearCart)

			r.Post("/items", carts.AddItem)
			r.Put("/items/{productId}", carts.UpdateItemQuantity)
			r.Delete("/items/{productId}", carts.RemoveItem)
		})
	})

	return r
}

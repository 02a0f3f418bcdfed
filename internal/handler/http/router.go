package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/health"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/middleware"
)

// RouterConfig carries the router's non-service dependencies.
type RouterConfig struct {
	Logger             *slog.Logger
	HealthHandler      *health.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int
	PprofCIDRs         []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	carts *session.CartManager,
	regions *session.RegionService,
	categories *session.CategoryCache,
	catalog *session.CatalogService,
	auth *session.AuthService,
	sessions *session.SessionService,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	cartHandler := NewCartHandler(carts, regions, cfg.Logger)
	regionHandler := NewRegionHandler(regions, cfg.Logger)
	categoryHandler := NewCategoryHandler(categories, cfg.Logger)
	productHandler := NewProductHandler(catalog, cfg.Logger)
	authHandler := NewAuthHandler(auth, cfg.Logger)
	accountHandler := NewAccountHandler(auth, cfg.Logger)
	sessionHandler := NewSessionHandler(sessions, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionID)

		r.Get("/regions", regionHandler.ListRegions)
		r.Get("/categories", categoryHandler.ListCategories)
		r.Post("/categories/refresh", categoryHandler.RefreshCategories)

		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/search", productHandler.SearchProducts)
		r.Get("/products/handle/{handle}", productHandler.GetProductByHandle)
		r.Get("/products/{productId}", productHandler.GetProduct)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Put("/region", regionHandler.SelectRegion)
			r.Put("/preferences", sessionHandler.UpdatePreferences)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{variantId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{variantId}", cartHandler.RemoveItem)
		})

		// Credential endpoints get a tighter per-IP rate limit.
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", accountHandler.GetProfile)
			r.Put("/", accountHandler.UpdateProfile)

			r.Get("/addresses", accountHandler.ListAddresses)
			r.Post("/addresses", accountHandler.AddAddress)
			r.Put("/addresses/{addressId}", accountHandler.UpdateAddress)
			r.Delete("/addresses/{addressId}", accountHandler.DeleteAddress)
		})
	})

	return r
}

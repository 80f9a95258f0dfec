package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Services bundles the business services the router exposes.
type Services struct {
	Products *service.ProductService
	Reviews  *service.ReviewService
	Contact  *service.ContactService
	Accounts *service.AccountService
	Wishlist *service.WishlistService
}

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	CORS middleware.CORSConfig
	// CatalogCacheMaxAge is the Cache-Control max-age, in seconds, of
	// catalog reads. Zero disables the header.
	CatalogCacheMaxAge int
	// PprofAllowedCIDRs enables /debug/pprof for these networks when set.
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
// limiter throttles form submissions; it may be nil.
func NewRouter(
	svcs Services,
	tokenValidator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Authenticate(tokenValidator))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if len(cfg.PprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	throttle := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		throttle = limiter.Handler
	}
	cached := func(next http.Handler) http.Handler { return next }
	if cfg.CatalogCacheMaxAge > 0 {
		cached = middleware.CacheControl(cfg.CatalogCacheMaxAge)
	}
	ownersOnly := middleware.RequireSuperuser(msgOwnersOnly, "/")

	productHandler := NewProductHandler(svcs.Products, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	categoryHandler := NewCategoryHandler(svcs.Products, logger)
	contactHandler := NewContactHandler(svcs.Contact, logger)
	accountHandler := NewAccountHandler(svcs.Accounts, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.With(cached).Get("/", productHandler.ListProducts)
			r.With(cached).Get("/{id}", productHandler.GetProduct)
			r.Get("/{id}/reviews", reviewHandler.ListReviews)

			// Reviews are posted to the detail page as well as the nested collection.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{id}", reviewHandler.CreateReview)
				r.Post("/{id}/reviews", reviewHandler.CreateReview)
			})

			r.Group(func(r chi.Router) {
				r.Use(ownersOnly)
				r.Post("/", productHandler.CreateProduct)
				r.Post("/add", productHandler.CreateProduct)
				r.Get("/{id}/edit", productHandler.EditProductForm)
				r.Put("/{id}", productHandler.UpdateProduct)
				r.Put("/{id}/edit", productHandler.UpdateProduct)
				r.Post("/{id}/edit", productHandler.UpdateProduct)
				r.Delete("/{id}", productHandler.DeleteProduct)
				r.Delete("/{id}/delete", productHandler.DeleteProduct)
				r.Post("/{id}/delete", productHandler.DeleteProduct)
			})
		})

		r.With(cached).Get("/categories", categoryHandler.ListCategories)

		r.Get("/contact", contactHandler.ContactForm)
		r.With(throttle).Post("/contact", contactHandler.SubmitContact)
		r.Get("/newsletter", contactHandler.NewsletterForm)
		r.With(throttle).Post("/newsletter", contactHandler.Subscribe)

		r.Route("/auth", func(r chi.Router) {
			r.Use(throttle)
			r.Post("/register", accountHandler.Register)
			r.Post("/login", accountHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/profile", accountHandler.GetProfile)
			r.Put("/profile", accountHandler.UpdateProfile)

			r.Get("/wishlist", wishlistHandler.ListWishlist)
			r.Post("/wishlist/{productId}", wishlistHandler.AddToWishlist)
			r.Delete("/wishlist/{productId}", wishlistHandler.RemoveFromWishlist)
		})
	})

	return r
}

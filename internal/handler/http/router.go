package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/catalog"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/chat"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/event"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/internal/session"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/health"
	"github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	CatalogStore  *catalog.Store
	Products      ProductGetter
	ChatRelay     *chat.Relay
	SessionStore  session.Store
	Events        *event.Publisher
	Passthrough   http.Handler
	HealthHandler *health.Handler
	CORS          middleware.CORSConfig
	RateLimitRPS  int
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	if deps.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitRPS*2, deps.Logger))
	}

	// Health and metrics endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(deps.CatalogStore, deps.Events, deps.Logger)
	productHandler := NewProductHandler(deps.Products, deps.Events, deps.Logger)
	chatHandler := NewChatHandler(deps.ChatRelay, deps.Events, deps.Logger)
	sessionHandler := NewSessionHandler(deps.SessionStore, deps.Logger)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/home", catalogHandler.GetHome)
		r.Post("/home/refresh", catalogHandler.Refresh)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/{idOrSlug}", productHandler.GetProduct)
	})

	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionID)

		r.Post("/messages", chatHandler.SendMessage)
	})

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionID)

		r.Get("/", sessionHandler.GetSession)
		r.Get("/wishlist", sessionHandler.GetWishlist)
		r.Post("/wishlist", sessionHandler.AddWishlistItem)
		r.Delete("/wishlist/{productID}", sessionHandler.RemoveWishlistItem)
		r.Get("/cart", sessionHandler.GetCart)
		r.Put("/cart", sessionHandler.ReplaceCart)
		r.Delete("/cart", sessionHandler.ClearCart)
	})

	// Surfaces owned by the backend go straight through.
	if deps.Passthrough != nil {
		r.Handle("/api/v1/reviews", deps.Passthrough)
		r.Handle("/api/v1/reviews/*", deps.Passthrough)
		r.Handle("/api/v1/auth/*", deps.Passthrough)
		r.Handle("/api/v1/payments/*", deps.Passthrough)
		r.Handle("/api/v1/admin/*", deps.Passthrough)
	}

	return r
}

package router

import (
	"net/http"

	"productlist/internal/handler"
	"productlist/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// POST and DELETE require apiKey when it is non-empty.
func New(
	productHandler *handler.ProductHandler,
	healthHandler http.Handler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// RequestID -> Logging -> Recovery -> CORS -> APIKeyAuth
	// Recovery sits inside Logging so recovered panics still get an access log line.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoint (no authentication required)
	r.Method(http.MethodGet, "/health", healthHandler)

	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/", productHandler.List)
		r.Post("/", productHandler.Create)
		r.Get("/{productId}", productHandler.Get)
		r.Delete("/{productId}", productHandler.Delete)
	})

	return r
}

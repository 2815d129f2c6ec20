package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/binukalewke/dreamland/internal/metrics"
	"github.com/binukalewke/dreamland/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// Dream Land API.
//
// Routes:
//
//	POST   /api/signup                       → authHandler.SignUp
//	POST   /api/login                        → authHandler.Login (rate limited per email)
//	GET    /api/catalog                      → catalogHandler.Feed
//	GET    /api/movies/{title}/reviews       → catalogHandler.ListReviews
//	GET    /metrics                          → Prometheus exposition
//
// Protected (bearer token required):
//
//	POST   /api/logout                       → authHandler.Logout
//	GET    /api/me                           → authHandler.Me
//	GET    /api/users/{id}                   → authHandler.GetProfile
//	PATCH  /api/users/{id}                   → authHandler.UpdateProfile
//	GET    /api/bookmarks                    → bookmarkHandler.List
//	PUT    /api/bookmarks/{title}            → bookmarkHandler.Put
//	DELETE /api/bookmarks/{title}            → bookmarkHandler.Delete
//	POST   /api/movies/{title}/reviews       → catalogHandler.AddReview
func NewRouter(
	authHandler *AuthHandler,
	bookmarkHandler *BookmarkHandler,
	catalogHandler *CatalogHandler,
	resolver middleware.TokenResolver,
	loginLimiter *middleware.LoginLimiter,
	collector *metrics.Collector,
	metricsHandler http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	if collector != nil {
		r.Use(collector.Middleware)
	}

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json on the API
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Public endpoints
		r.Post("/signup", authHandler.SignUp)
		r.With(loginLimiter.Middleware()).Post("/login", authHandler.Login)
		r.Get("/catalog", catalogHandler.Feed)
		r.Get("/movies/{title}/reviews", catalogHandler.ListReviews)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(resolver))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Get("/users/{id}", authHandler.GetProfile)
			r.Patch("/users/{id}", authHandler.UpdateProfile)

			r.Get("/bookmarks", bookmarkHandler.List)
			r.Put("/bookmarks/{title}", bookmarkHandler.Put)
			r.Delete("/bookmarks/{title}", bookmarkHandler.Delete)

			r.Post("/movies/{title}/reviews", catalogHandler.AddReview)
		})
	})

	return r
}

// Package api provides the HTTP API server and handlers for OhMyReads.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ohmyreads/ohmyreads-server/internal/http/response"
	"github.com/ohmyreads/ohmyreads-server/internal/search"
	"github.com/ohmyreads/ohmyreads-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxy bool
	// Per-client limits for /api routes. Zero values use the defaults.
	RateLimitPerMinute int
	RateLimitBurst     int
}

const (
	defaultRateLimitPerMinute = 120
	defaultRateLimitBurst     = 30
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	index       *search.ShelfIndex
	services    *Services
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	rateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, index *search.ShelfIndex, services *Services, tokens TokenVerifier, opts Options, logger *slog.Logger) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = defaultRateLimitPerMinute
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}

	s := &Server{
		store:       st,
		index:       index,
		services:    services,
		router:      chi.NewRouter(),
		logger:      logger,
		rateLimiter: NewRateLimiter(opts.RateLimitPerMinute, time.Minute, opts.RateLimitBurst),
	}

	s.setupMiddleware(opts, tokens)

	humaConfig := huma.DefaultConfig("OhMyReads API", Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options, tokens TokenVerifier) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(onlyAPI(RateLimitMiddleware(s.rateLimiter, s.logger)))
	s.router.Use(authMiddleware(tokens))
}

// registerRoutes registers every huma operation.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerGoalsRoutes()
	s.registerRecommendationRoutes()
	s.registerGenreRoutes()
	s.registerConciergeRoutes()
	s.registerShelfRoutes()
	s.registerReviewRoutes()
	s.registerBlogRoutes()
}

// onlyAPI applies mw to /api paths and passes everything else through.
func onlyAPI(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

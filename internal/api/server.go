package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/recreate-labs/recreate/internal/auth"
	"github.com/recreate-labs/recreate/internal/config"
	"github.com/recreate-labs/recreate/internal/ideas"
	"github.com/recreate-labs/recreate/internal/media"
	"github.com/recreate-labs/recreate/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	config      config.ServerConfig
	router      *chi.Mux
	repo        storage.Repository
	sessions    auth.Store
	ideaService *ideas.Service
	mediaStore  *media.Store
	sessionMW   *SessionMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	repo storage.Repository,
	sessions auth.Store,
	ideaService *ideas.Service,
	mediaStore *media.Store,
) *Server {
	s := &Server{
		config:      cfg,
		repo:        repo,
		sessions:    sessions,
		ideaService: ideaService,
		mediaStore:  mediaStore,
		sessionMW:   NewSessionMiddleware(sessions),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionMW.Resolve)

		r.Post("/login", s.handleLogin)
		r.Post("/upload", s.handleUpload)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyze/ws", s.handleAnalyzeStream)
		r.Post("/challenge-details", s.handleChallengeDetails)
		r.Post("/complete-project", s.handleCompleteProject)
		r.Get("/user-stats/{username}", s.handleUserStats)
		r.Get("/placeholder/{id}", s.handlePlaceholder)
	})

	// Media directories served directly by filename
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.mediaStore.UploadsDir()))))
	r.Handle("/generated/*", http.StripPrefix("/generated/", http.FileServer(http.Dir(s.mediaStore.GeneratedDir()))))

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

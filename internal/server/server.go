package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/sharelog"
	"github.com/kylescorner/corner/internal/statecodec"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config holds server configuration.
type Config struct {
	Port           int
	SiteDir        string // built site served at /; empty serves the API only
	SharePage      string // absolute URL share links point at
	AllowedOrigins []string
	Timeout        time.Duration
}

// Deps are the loaded data and services the API works on. Catalog and
// History may be nil.
type Deps struct {
	Registry *restaurants.Registry
	Catalog  *music.Catalog
	Codec    *statecodec.Codec
	History  *sharelog.Store
	Logger   *slog.Logger
}

// Server serves the built site and the restaurant and music API.
type Server struct {
	cfg        Config
	deps       Deps
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a server. The registry is shared read-only between requests;
// every request builds its own Board.
func New(cfg Config, deps Deps) *Server {
	if deps.Codec == nil {
		deps.Codec = statecodec.New(statecodec.PolicyReject, nil, deps.Logger)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/restaurants", s.handleRestaurants)
		r.Get("/filters", s.handleFilters)
		r.Get("/state", s.handleState)
		r.Post("/share", s.handleShare)
		r.Post("/random", s.handleRandom)
		r.Get("/music/search", s.handleMusicSearch)
	})
	if s.deps.History != nil {
		sharelog.RegisterRoutes(r, s.deps.History)
	}

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}
	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("corner server listening", "addr", addr, "site", s.cfg.SiteDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) pickRandom(b *restaurants.Board) (int, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return b.PickRandom(s.rng)
}

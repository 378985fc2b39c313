package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/fieldstack/fieldstack/internal/api/ws"
	"github.com/fieldstack/fieldstack/internal/config"
	"github.com/fieldstack/fieldstack/internal/onboarding"
	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/server/middleware"
	redisstore "github.com/fieldstack/fieldstack/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router      chi.Router
	httpServer  *http.Server
	provisioner *provision.Service
	workflow    *onboarding.Workflow
	pubsub      *redisstore.PubSub
	wsHub       *ws.Hub
	cfg         *config.Config
}

// New creates a Server with all routes wired. The context bounds the
// lifetime of background middleware state (rate limiter cleanup).
func New(ctx context.Context, cfg *config.Config, provisioner *provision.Service, workflow *onboarding.Workflow, pubsub *redisstore.PubSub) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub(pubsub)

	s := &Server{
		router:      router,
		provisioner: provisioner,
		workflow:    workflow,
		pubsub:      pubsub,
		wsHub:       hub,
		cfg:         cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// All API routes require an operator token. Provisioning is throttled
	// per source IP on top of that.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.Use(middleware.RateLimitByIP(ctx, 10, 20))

		apiConfig := huma.DefaultConfig("FieldStack Provisioning API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, provisioner, workflow)
	})

	// WebSocket routes.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It connects handlers, middleware and
// routes, and decides:
//   - which URL patterns map to which handler functions
//   - which gate requirement sits in front of each route
//   - how the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	cmd/server creates:  config.Config, *slog.Logger, *storage.Store
//	server.New creates:  SessionRegistry → Gate
//	                     Metrics (reads the registry size)
//	                     AuthService, GameService → handlers → routes
//
// This is the "composition root": every dependency is wired here rather
// than scattered across the codebase, and there is no package-level state.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/game-portal/internal/auth"
	"github.com/sakif/game-portal/internal/config"
	"github.com/sakif/game-portal/internal/handler"
	"github.com/sakif/game-portal/internal/metrics"
	"github.com/sakif/game-portal/internal/middleware"
	"github.com/sakif/game-portal/internal/service"
	"github.com/sakif/game-portal/internal/storage"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store. Start closes it after the HTTP server has
// drained; tests that never call Start call Close instead.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	store    *storage.Store
	sessions *auth.SessionRegistry
	metrics  *metrics.Metrics
}

// New wires the whole application on top of an opened store.
//
// Each layer only receives what it needs:
//   - services get repository interfaces, not the concrete store
//   - handlers get services (through small interfaces) and the gate
func New(cfg config.Config, store *storage.Store, logger *slog.Logger) *Server {
	sessions := auth.NewSessionRegistry()

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
		metrics:  metrics.New(sessions.Len),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /register        → create account            (public)
//	POST   /login           → open session, set cookie  (public)
//	GET    /auth/status     → session probe             (public)
//	POST   /logout          → revoke session            (session)
//	GET    /juegos          → list catalog              (session)
//	POST   /juegos          → add game                  (session + admin)
//	PUT    /juegos/{id}     → replace game              (session + admin)
//	DELETE /juegos/{id}     → remove game               (session + admin)
//	GET    /healthz         → store ping                (public)
//	GET    /metrics         → Prometheus exposition     (public)
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns an id used by the request log
//  2. RealIP: extracts the client IP from proxy headers
//  3. Logger and Instrument: see the final status, including recovered panics
//  4. Recoverer: turns a panic into 500 instead of killing the connection
//  5. CORS: answers preflight requests before any gate runs
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Instrument(s.metrics))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(corsOptions(s.config.CORSOrigins)))

	gate := auth.NewGate(s.sessions, s.logger)

	authService := service.NewAuthService(s.store.Users, s.sessions, s.metrics, s.logger)
	gameService := service.NewGameService(s.store.Games, s.logger)

	authHandler := handler.NewAuthHandler(authService, gate, s.config.CookieSecure, s.logger)
	gameHandler := handler.NewGameHandler(gameService, s.logger)

	// === Public routes ===
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/auth/status", authHandler.HandleStatus)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// === Session routes ===
	// Gates are attached per route, not on a sub-router, so a path the router
	// cannot match is a 404 before any gate runs. RequireSession always comes
	// before RequireAdmin: an anonymous caller gets 401 on every protected route.
	s.router.With(gate.RequireSession).Post("/logout", authHandler.HandleLogout)

	admin := s.router.With(gate.RequireSession, gate.RequireAdmin)
	s.router.With(gate.RequireSession).Get("/juegos", gameHandler.HandleList)
	admin.Post("/juegos", gameHandler.HandleCreate)
	admin.Put("/juegos/{id:[0-9]+}", gameHandler.HandleUpdate)
	admin.Delete("/juegos/{id:[0-9]+}", gameHandler.HandleDelete)
}

// corsOptions builds the CORS policy.
//
// CREDENTIALS AND "*":
// Browsers reject "Access-Control-Allow-Origin: *" on credentialed requests,
// and the session cookie is exactly that. A "*" entry is therefore turned
// into an AllowOriginFunc that accepts any origin, and the middleware echoes
// the caller's origin back.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	for _, o := range origins {
		if o == "*" {
			opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
			return opts
		}
	}
	opts.AllowedOrigins = origins
	return opts
}

// handleHealth answers 200 "ok" while the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the live session registry.
func (s *Server) Sessions() *auth.SessionRegistry {
	return s.sessions
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start starts the HTTP server and blocks until it stops.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (shutdownTimeout)
//  3. Close the store (flushes the SQLite WAL, returns pool connections)
//
// Every session lives in memory only, so a restart logs everybody out.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("driver", s.store.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully",
			slog.Int("sessions_dropped", s.sessions.Len()),
		)
	}

	return nil
}

// Package server sets up the HTTP server, router and route definitions.
//
// This package is the wiring layer. It decides which URL patterns map to which
// handlers, what middleware runs on which routes, and how the server starts
// and stops.
//
// DEPENDENCY INJECTION FLOW:
//
//	main opens the store (sqlite.DB or mongo.DB) → passed to Server
//	Server.New builds: UserService / ExerciseService → UserHandler / ExerciseHandler
//
// Each layer only receives what it needs. Services get repository
// interfaces, never the concrete store; handlers get services, never the
// store. All of it is assembled in one place, setupRoutes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/exercise-tracker/internal/config"
	"github.com/sakif/exercise-tracker/internal/handler"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/middleware"
	"github.com/sakif/exercise-tracker/internal/repository"
	"github.com/sakif/exercise-tracker/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the store: it is closed once the server stops.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New wires the store into services, handlers and routes.
//
// The store is opened by the caller but owned by the Server from here on:
// Serve closes it once the HTTP server has stopped. If New fails, the caller
// still owns it.
func New(cfg *config.Config, logger *slog.Logger, store repository.Store) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
//	GET     /                          home page (HTML)
//	GET     /healthz                   store reachability
//	GET     /metrics                   Prometheus exposition
//	POST    /api/users                 create user
//	GET     /api/users                 list users
//	POST    /api/users/{id}/exercises  add exercise
//	GET     /api/users/{id}/logs       exercise log
//
// MIDDLEWARE ORDER MATTERS:
// Middleware runs in the order it is added, outermost first:
//  1. RequestID: assigns the id the Logger prints
//  2. RealIP: takes the client IP from proxy headers
//  3. Logger: sits outside Recoverer so a recovered panic is logged as a 500
//  4. Recoverer: turns a panic into a 500 instead of a dead connection
//  5. CORS: runs before routing, so preflight for any path gets a 204
//  6. Metrics: reads the matched route pattern once routing has finished
//
// The /api group adds a per-request deadline on top.
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS)
	s.router.Use(middleware.Metrics)

	// === Page and Ops Routes ===
	homeHandler, err := handler.NewHomeHandler(s.logger)
	if err != nil {
		return fmt.Errorf("creating home handler: %w", err)
	}
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/", homeHandler.HandleHome)
	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	// === API Routes ===
	// DEPENDENCY CHAIN:
	//   s.store implements both UserRepository and ExerciseRepository
	//   the services receive it through those interfaces
	//   the handlers receive the services
	userService := service.NewUserService(s.store, s.logger)
	exerciseService := service.NewExerciseService(s.store, s.store, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Store calls inherit this deadline through the request context.
		r.Use(middleware.Deadline(s.config.RequestTimeout))

		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users", userHandler.HandleList)
		r.Post("/users/{id}/exercises", exerciseHandler.HandleAdd)
		r.Get("/users/{id}/logs", exerciseHandler.HandleLog)
	})

	return nil
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		s.store.Close()
		return fmt.Errorf("listening on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to ShutdownTimeout for in-flight requests to finish
//  3. Close the store (flushes the SQLite WAL, disconnects the Mongo client)
//
// Step 3 is deferred, so it runs on every exit path.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	// WriteTimeout leaves room past the request deadline so a handler that
	// gave up on the store can still write its 500.
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("store", s.config.StoreDriver),
		)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite type), handlers get services (not
// repositories). Keeping the wiring out of main.go makes the server
// testable without running the binary.
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

	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/handler"
	"github.com/sakif/bookmarks/internal/middleware"
	sqliteRepo "github.com/sakif/bookmarks/internal/repository/sqlite"
	"github.com/sakif/bookmarks/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string        // path to the SQLite database file
	JWTSecret string        // HMAC secret for signing access tokens (required)
	JWTExpiry time.Duration // lifetime of issued access tokens
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection: when it shuts down, the
// connection is closed so pending WAL writes are flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, opening the database and wiring every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE (all JSON, under /api/v1):
//
//	POST   /api/v1/auth/sign-up   → register, returns {token}
//	POST   /api/v1/auth/sign-in   → authenticate, returns {token}
//	GET    /api/v1/users          → current user's profile        [bearer]
//	PATCH  /api/v1/users          → update first/last name        [bearer]
//	DELETE /api/v1/users          → delete account                [bearer]
//	POST   /api/v1/bookmarks      → create bookmark               [bearer]
//	GET    /api/v1/bookmarks      → list own bookmarks            [bearer]
//	GET    /api/v1/bookmarks/{id} → get one (owner only)          [bearer]
//	PATCH  /api/v1/bookmarks/{id} → update (owner only)           [bearer]
//	DELETE /api/v1/bookmarks/{id} → delete (owner only)           [bearer]
//
// MIDDLEWARE ORDER MATTERS — global stack first, in order:
// RequestID (tracing), RealIP (client IP behind proxies), Recoverer
// (panics become 500s instead of crashing the process), request logging.
// RequireAuth wraps only the protected subtrees, so the two auth routes
// stay reachable without a token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTExpiry)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Each service receives only the repository interface it depends on.
	users := s.db.Users()
	bookmarks := s.db.Bookmarks()
	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	userService := service.NewUserService(users, s.logger)
	bookmarkService := service.NewBookmarkService(bookmarks, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)

	requireAuth := auth.RequireAuth(tokens, users)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/sign-up", authHandler.HandleSignUp)
		r.Post("/auth/sign-in", authHandler.HandleSignIn)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/users", userHandler.HandleGet)
			r.Patch("/users", userHandler.HandleUpdate)
			r.Delete("/users", userHandler.HandleDelete)

			r.Post("/bookmarks", bookmarkHandler.HandleCreate)
			r.Get("/bookmarks", bookmarkHandler.HandleList)
			r.Get("/bookmarks/{id}", bookmarkHandler.HandleGetByID)
			r.Patch("/bookmarks/{id}", bookmarkHandler.HandleUpdate)
			r.Delete("/bookmarks/{id}", bookmarkHandler.HandleDelete)
		})
	})

	return nil
}

// Handler returns the fully wired router. Used by tests to drive the server
// through httptest without opening a network port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database connection).
// Start calls this itself; tests that only use Handler must call it.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

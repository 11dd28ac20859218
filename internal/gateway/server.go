// Package gateway hosts the two inbound HTTP endpoints and routes verified
// events: Discord interactions are answered synchronously, GitHub webhook
// events become fire-and-forget channel notifications.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Forom-ets/discord-forom/internal/delivery"
	"github.com/Forom-ets/discord-forom/internal/game"
	"github.com/Forom-ets/discord-forom/internal/registry"
	"github.com/Forom-ets/discord-forom/internal/verify"
)

// maxBodySize caps inbound request bodies. GitHub push payloads stay well
// under this.
const maxBodySize = 1 << 20 // 1 MB

// Notifier accepts outbound notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(n delivery.Notification) bool
}

// Config holds gateway server configuration.
type Config struct {
	Listen string

	// PublicURL is interpolated into setup confirmations so users know
	// where to point their GitHub webhook.
	PublicURL string
}

// Server is the webhook-facing HTTP server.
type Server struct {
	config       Config
	rules        registry.Store
	notifier     Notifier
	interactions *verify.InteractionVerifier
	githubPolicy verify.Policy
	games        *game.Sessions
	logger       *slog.Logger
	server       *http.Server
}

// New creates a gateway server.
func New(config Config, rules registry.Store, notifier Notifier, interactions *verify.InteractionVerifier, githubPolicy verify.Policy, logger *slog.Logger) *Server {
	return &Server{
		config:       config,
		rules:        rules,
		notifier:     notifier,
		interactions: interactions,
		githubPolicy: githubPolicy,
		games:        game.NewSessions(),
		logger:       logger,
	}
}

// Start starts the HTTP server (blocking until ctx is cancelled).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("gateway server starting",
		"listen", s.config.Listen,
		"github_verification", s.githubPolicy.Enforcing(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("gateway server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("gateway server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("gateway server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/interactions", s.handleInteraction)
	r.Post("/github-webhook", s.handleGitHubWebhook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondText(w, http.StatusOK, "ok")
	})

	return r
}

// loggingMiddleware logs HTTP requests (excludes payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("gateway request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondText sends a plain-text response.
func (s *Server) respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

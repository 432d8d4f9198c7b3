// Package server provides the HTTP REST API consumed by the institution
// dashboards.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marc/gazelle-sync/internal/config"
	"github.com/marc/gazelle-sync/internal/db"
	"github.com/marc/gazelle-sync/internal/gazelle"
	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/server/middleware"
	"github.com/marc/gazelle-sync/internal/server/ratelimit"
)

// Server is the HTTP server wiring the parser, store and CRM client
// together behind REST endpoints.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	crm         *gazelle.Client
	cfg         *config.Config
	jwtService  *JWTService
	passwords   *config.PasswordConfig
	rateLimiter *ratelimit.Limiter
}

// New creates a server instance from the service configuration.
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{db: database, cfg: cfg}

	// The CRM client is optional: parse preview and CRUD work without it,
	// reconciliation endpoints refuse politely.
	if cfg.GazelleBaseURL != "" && cfg.GazelleAPIKey != "" {
		crm, err := gazelle.NewClient(cfg.GazelleBaseURL, cfg.GazelleAPIKey, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create gazelle client: %w", err)
		}
		s.crm = crm
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.passwords = passwords

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())

	auth := middleware.Auth(s.jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("POST /parse/preview", s.withRateLimit(http.HandlerFunc(s.handleParsePreview)))
	mux.Handle("POST /requests/import", s.withRateLimit(auth(http.HandlerFunc(s.handleImportRequests))))

	mux.HandleFunc("GET /requests", s.handleListRequests)
	mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)
	mux.Handle("POST /requests", auth(http.HandlerFunc(s.handleCreateRequest)))
	mux.Handle("DELETE /requests/{id}", auth(http.HandlerFunc(s.handleDeleteRequest)))
	mux.Handle("PATCH /requests/{id}/status", auth(http.HandlerFunc(s.handleUpdateStatus)))

	mux.HandleFunc("GET /requests/{id}/match", s.handleMatchRequest)
	mux.Handle("POST /requests/{id}/reconcile", auth(http.HandlerFunc(s.handleReconcileRequest)))
	mux.Handle("POST /reconcile", auth(http.HandlerFunc(s.handleReconcileRun)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// yearWindow returns the configured year-inference window for parse calls.
func (s *Server) yearWindow() parsing.YearWindow {
	return parsing.YearWindow{
		PastDays:   s.cfg.YearWindowPastDays,
		FutureDays: s.cfg.YearWindowFutureDays,
	}
}

// Start begins listening and blocks until interrupted, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers for the dashboard front-ends.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit applies the per-client limiter.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r))
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		if !allowed {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies a client by IP for rate limiting.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

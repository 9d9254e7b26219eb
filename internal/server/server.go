// Package server provides the HTTP REST API for the sales pipeline board.
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
	"strings"
	"syscall"
	"time"

	"github.com/jmendez/crmboard/internal/board"
	"github.com/jmendez/crmboard/internal/config"
	"github.com/jmendez/crmboard/internal/db"
	"github.com/jmendez/crmboard/internal/server/middleware"
	"github.com/jmendez/crmboard/internal/server/ratelimit"
	"github.com/jmendez/crmboard/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	board       *board.Board
	drag        *board.DragController
	hub         *EventHub
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	sessions    *session.RedisStore
	origins     []string
	windowDays  int
}

// New creates a new server instance
func New(cfg *config.ServerConfig) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:         database,
		origins:    cfg.AllowedOrigins,
		windowDays: cfg.WindowDays,
	}

	// Board state: stores over the database, projector wired in
	stages := board.NewStageStore(database)
	deals := board.NewDealStore(database, time.Duration(cfg.WindowDays)*24*time.Hour)
	s.board = board.New(stages, deals)
	s.hub = NewEventHub(s.board)
	s.drag = board.NewDragController(s.board, s.hub, s.hub)

	if err := s.board.Refresh(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	// Refresh-token sessions are optional: enabled when REDIS_URL is set
	var sessions SessionStore
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.sessions = store
		sessions = store
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth endpoints
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /auth/refresh", s.authHandler.Refresh)
	mux.HandleFunc("POST /auth/logout", s.authHandler.Logout)

	// Everything under /api and the password change require a valid token
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("PUT /auth/password", authed(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("/api/", authed(s.apiMux()))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// apiMux builds the authenticated API router.
func (s *Server) apiMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Board endpoints
	mux.HandleFunc("GET /api/board", s.handleGetBoard)
	mux.HandleFunc("POST /api/board/drag", s.handleDrag)
	mux.HandleFunc("POST /api/board/refresh", s.handleRefreshBoard)
	mux.HandleFunc("GET /api/board/events", s.handleBoardEvents)

	// Stage endpoints
	mux.HandleFunc("GET /api/stages", s.handleListStages)
	mux.HandleFunc("POST /api/stages", s.handleCreateStage)
	mux.HandleFunc("PUT /api/stages/{id}", s.handleRenameStage)
	mux.HandleFunc("DELETE /api/stages/{id}", s.handleDeleteStage)
	mux.HandleFunc("POST /api/stages/{id}/clear", s.handleClearStage)

	// Deal endpoints
	mux.HandleFunc("GET /api/deals", s.handleListDeals)
	mux.HandleFunc("POST /api/deals", s.handleCreateDeal)
	mux.HandleFunc("GET /api/deals/{id}", s.handleGetDeal)
	mux.HandleFunc("PUT /api/deals/{id}", s.handleUpdateDeal)
	mux.HandleFunc("DELETE /api/deals/{id}", s.handleDeleteDeal)
	mux.HandleFunc("POST /api/deals/{id}/finalize", s.handleFinalizeDeal)

	// Company endpoints
	mux.HandleFunc("GET /api/companies", s.handleListCompanies)
	mux.HandleFunc("POST /api/companies", s.handleCreateCompany)
	mux.HandleFunc("GET /api/companies/{id}", s.handleGetCompany)
	mux.HandleFunc("PUT /api/companies/{id}", s.handleUpdateCompany)
	mux.HandleFunc("DELETE /api/companies/{id}", s.handleDeleteCompany)
	mux.HandleFunc("GET /api/companies/{id}/contacts", s.handleListCompanyContacts)

	// Contact endpoints
	mux.HandleFunc("GET /api/contacts", s.handleListContacts)
	mux.HandleFunc("POST /api/contacts", s.handleCreateContact)
	mux.HandleFunc("GET /api/contacts/{id}", s.handleGetContact)
	mux.HandleFunc("PUT /api/contacts/{id}", s.handleUpdateContact)
	mux.HandleFunc("DELETE /api/contacts/{id}", s.handleDeleteContact)

	// User endpoints
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/me", s.handleGetMe)

	// Dashboard endpoints
	mux.HandleFunc("GET /api/dashboard/deals-chart", s.handleDealsChart)
	mux.HandleFunc("GET /api/dashboard/totals", s.handleDashboardTotals)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
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

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.hub.Close()
	if s.sessions != nil {
		s.sessions.Close() //nolint:errcheck
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := len(s.origins) == 1 && s.origins[0] == "*"
	allowed := make(map[string]bool, len(s.origins))
	for _, origin := range s.origins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if err := s.db.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		s.jsonResponse(w, http.StatusServiceUnavailable, status)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// handleUpdatePassword handles password update requests for the caller.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// trimPathID reads the {id} path value, with surrounding whitespace removed.
func trimPathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

// Package server provides the HTTP REST API for the report service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mhollis/taxdoc/internal/config"
	"github.com/mhollis/taxdoc/internal/convert"
	"github.com/mhollis/taxdoc/internal/db"
	"github.com/mhollis/taxdoc/internal/pipeline"
	"github.com/mhollis/taxdoc/internal/server/ratelimit"
	"github.com/mhollis/taxdoc/internal/types"
)

// QuestionnaireStore is the key-value record source the report endpoints
// read stored submissions from.
type QuestionnaireStore interface {
	SaveQuestionnaire(ctx context.Context, clientID uuid.UUID, formType string, record types.QuestionnaireRecord) (uuid.UUID, error)
	LatestQuestionnaire(ctx context.Context, clientID uuid.UUID, formType string) (types.QuestionnaireRecord, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	logger      *zap.Logger
	store       QuestionnaireStore
	converter   pipeline.Converter
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	database    *db.DB
}

// New creates a server wired to the real database and conversion service.
// The database is optional: without it the stored-questionnaire endpoints
// respond 503 while inline report generation keeps working. The conversion
// credential is also optional; without it every report is served as DOCX.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := newServer(cfg, logger, nil, convert.NewClient(cfg.CloudConvertAPIKey, &convert.Options{
		BaseURL: cfg.CloudConvertURL,
		Logger:  logger,
	}))

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.database = database
		s.store = database
	}
	return s, nil
}

// newServer wires routes and middleware around injectable collaborators so
// handler tests can run against fakes.
func newServer(cfg *config.Config, logger *zap.Logger, store QuestionnaireStore, converter pipeline.Converter) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		converter:   converter,
		validate:    validator.New(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /reports", s.handleGenerateReport)
	mux.HandleFunc("POST /questionnaires", s.handleSubmitQuestionnaire)
	mux.HandleFunc("POST /clients/{client_id}/reports", s.handleClientReport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // conversion polling can take a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.database != nil {
		s.database.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

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
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// withRateLimit rejects clients over their endpoint tier.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller for rate limiting, preferring the
// forwarded address set by the reverse proxy.
func clientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes the structured JSON error body.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	s.jsonResponse(w, status, body)
}

// Package server provides the HTTP REST API for course eligibility validation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/config"
	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/extraction"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/metrics"
	"github.com/jonathan/experience-validator/internal/reports"
	"github.com/jonathan/experience-validator/internal/server/middleware"
	"github.com/jonathan/experience-validator/internal/types"
)

// Store is the storage the API runs on. *db.DB implements it.
type Store interface {
	reports.Store

	Ping(ctx context.Context) error

	CreateCourse(ctx context.Context, req *types.CreateCourseRequest) (*db.Course, error)
	ListCourses(ctx context.Context, opts db.ListCoursesOptions) ([]db.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req *types.UpdateCourseRequest) (*db.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) (bool, error)

	CreateDocument(ctx context.Context, filename, fileType, text string) (*db.Document, error)
	ListDocuments(ctx context.Context, skip, limit int) ([]db.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error)
	ReplaceExtractions(ctx context.Context, documentID uuid.UUID, records []types.ExperienceRecord) ([]db.Extraction, error)

	CreateValidation(ctx context.Context, v *db.Validation) (*db.Validation, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        Store
	reports      *reports.Service
	logger       *zap.Logger
	metrics      *metrics.Metrics
	registry     *prometheus.Registry
	segmenter    *extraction.Segmenter
	jwtService   *JWTService
	maxTextBytes int64
	workers      int
	corsOrigin   string
}

// Config holds server configuration
type Config struct {
	Port         int
	MaxTextBytes int64
	Workers      int
	CORSOrigin   string

	// JWT enables bearer authentication on write routes when non-nil
	JWT *config.JWTConfig

	// Now overrides the clock used for open-ended experiences
	Now func() time.Time
}

// New creates a new server instance over store
func New(store Store, cfg Config, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		store:        store,
		reports:      reports.NewService(store, logger),
		logger:       logger,
		metrics:      metrics.New(registry),
		registry:     registry,
		segmenter:    extraction.NewSegmenter(),
		maxTextBytes: cfg.MaxTextBytes,
		workers:      cfg.Workers,
		corsOrigin:   cfg.CORSOrigin,
	}
	if cfg.Now != nil {
		s.segmenter.Now = cfg.Now
	}
	if s.maxTextBytes <= 0 {
		s.maxTextBytes = ingestion.DefaultMaxTextBytes
	}
	if s.workers <= 0 {
		s.workers = config.DefaultWorkers
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Course catalog
	mux.HandleFunc("POST /courses", s.handleCreateCourse)
	mux.HandleFunc("GET /courses", s.handleListCourses)
	mux.HandleFunc("GET /courses/{id}", s.handleGetCourse)
	mux.HandleFunc("PUT /courses/{id}", s.handleUpdateCourse)
	mux.HandleFunc("DELETE /courses/{id}", s.handleDeleteCourse)
	mux.HandleFunc("GET /courses/{id}/validations", s.handleListCourseValidations)

	// Documents and extraction
	mux.HandleFunc("POST /documents", s.handleCreateDocument)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /documents/{id}/extract", s.handleExtractDocument)
	mux.HandleFunc("GET /documents/{id}/extractions", s.handleListExtractions)
	mux.HandleFunc("GET /documents/{id}/validations", s.handleListDocumentValidations)

	// Validations
	mux.HandleFunc("POST /validations", s.handleCreateValidation)
	mux.HandleFunc("POST /validations/batch", s.handleBatchValidation)
	mux.HandleFunc("GET /validations/{id}", s.handleGetValidation)

	// Reports
	mux.HandleFunc("GET /reports/documents/{id}", s.handleDocumentReport)
	mux.HandleFunc("GET /reports/validations/{id}", s.handleValidationSummary)
	mux.HandleFunc("GET /reports/courses/{id}/statistics", s.handleCourseStatistics)
	mux.HandleFunc("GET /reports/courses/{id}/export.xlsx", s.handleCourseExport)

	var validator middleware.TokenValidator
	if s.jwtService != nil {
		validator = s.jwtService.AsTokenValidator()
	}
	return s.withLogging(s.withCORS(middleware.RequireForWrites(validator)(mux)))
}

// Start listens until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr), zap.Bool("auth", s.jwtService != nil))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Internal errors are logged, not echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.errorResponse(w, status, errorMessage(err))
}

// decodeJSON decodes the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ingestion.LoadError{Message: "request body is too large", Cause: ingestion.ErrTooLarge}
		}
		return &ErrValidation{Message: "Invalid request body"}
	}
	return nil
}

// pathID parses the {id} path value
func pathID(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "Invalid " + entity + " ID"}
	}
	return id, nil
}

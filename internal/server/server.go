package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/avelline/ladle/docs" // swagger spec registration
	"github.com/avelline/ladle/internal/app"
	"github.com/avelline/ladle/internal/history"
	"github.com/avelline/ladle/internal/logging"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for ladle.
type Server struct {
	cfg       Config
	runner    *app.Runner
	archive   *history.Archive
	router    chi.Router
	upgrader  websocket.Upgrader
	logger    logging.Logger
	historyDB *sql.DB
}

// NewServer creates a new Server with its own Runner and run archive.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	// Make sure storage root exists
	storageRoot, err := expandPath(cfg.AppConfig.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.AppConfig.StorageRoot = storageRoot
	if err := os.MkdirAll(cfg.AppConfig.StorageRoot, 0755); err != nil {
		logger.Warn("creating storage root directory",
			logging.Field{Key: "path", Value: cfg.AppConfig.StorageRoot},
			logging.Field{Key: "error", Value: err.Error()})
	}

	// Set up run archive DB
	db, err := sql.Open("sqlite", filepath.Join(cfg.AppConfig.StorageRoot, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	archive, err := history.NewArchive(db, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating run archive: %w", err)
	}

	var runner *app.Runner
	if cfg.WebClient != nil {
		runner = app.NewRunnerWithClient(cfg.AppConfig, cfg.WebClient, archive, logger)
	} else {
		runner, err = app.NewRunner(cfg.AppConfig, archive, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating runner: %w", err)
		}
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		archive: archive,
		router:  r,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		historyDB: db,
	}

	s.routes()
	return s, nil
}

// Runner returns the underlying runner for advanced use (tests, etc.).
func (s *Server) Runner() *app.Runner {
	return s.runner
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/operations", s.optionsHandler("GET"))
	r.Options("/runs", s.optionsHandler("GET, POST"))
	r.Options("/runs/{runID}", s.optionsHandler("GET"))

	// Operation catalog
	r.Get("/operations", s.handleListOperations)

	// Recipe runs
	r.Post("/runs", s.handleCreateRun)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)

	// WebSocket for live step progress
	r.Get("/ws/runs", s.handleRunWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the runner and underlying resources.
func (s *Server) Close() {
	if s.historyDB != nil {
		s.historyDB.Close()
	}
	if s.runner != nil {
		s.runner.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.AppConfig.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// expandPath resolves a leading "~" against the user's home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

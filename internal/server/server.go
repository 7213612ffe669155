// Package server serves the persisted artifacts of an input directory over
// a local HTTP API. Requests are handled one at a time against an input
// directory no other process writes to; the artifact cache relies on that
// single-writer assumption.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/annolab/annoview/internal/pipeline"
	"github.com/annolab/annoview/internal/store"
)

// Server serves artifact JSON files and term-store queries.
type Server struct {
	inputDir string
	uiDir    string
	terms    *store.Store // nil when the term store is disabled
	logger   *zap.Logger
}

// New creates a server over an input directory. terms may be nil.
func New(inputDir, uiDir string, terms *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		inputDir: inputDir,
		uiDir:    uiDir,
		terms:    terms,
		logger:   logger,
	}
}

// Router builds the route table with logging and request-id middleware.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/stats/assembly", s.artifactHandler(pipeline.AssemblyStatsFileName))
	mux.HandleFunc("GET /api/v1/stats/genemodel", s.artifactHandler(pipeline.GeneModelStatsFileName))
	mux.HandleFunc("GET /api/v1/slim", s.artifactHandler(pipeline.SlimCountsFileName))
	mux.HandleFunc("GET /api/v1/terms", s.handleTerms)

	if s.uiDir != "" {
		fs := http.FileServer(http.Dir(s.uiDir))
		mux.Handle("GET /", fs)
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware()(handler)
	return handler
}

// ListenAndServe serves the router on addr, blocking.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// artifactHandler streams a persisted artifact file unchanged. A missing
// artifact is a 404: the server never computes, it only serves.
func (s *Server) artifactHandler(name string) http.HandlerFunc {
	path := filepath.Join(s.inputDir, name)

	return func(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "artifact not found", http.StatusNotFound)
				return
			}
			s.logger.Error("open artifact", zap.String("path", path), zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/json")
		if _, err := io.Copy(w, f); err != nil {
			s.logger.Error("stream artifact", zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	if s.terms == nil {
		http.Error(w, "term store not enabled", http.StatusNotFound)
		return
	}

	terms, err := s.terms.TopTerms(limit)
	if err != nil {
		s.logger.Error("query top terms", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if terms == nil {
		terms = []store.TermCount{}
	}

	writeJSON(w, terms)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

// Package server exposes analysis runs, saved results and exports over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/lead-cli/internal/export"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/pipeline"
	"github.com/sells-group/lead-cli/internal/scrape"
)

// Runner runs the pipeline for one URL.
type Runner interface {
	Run(ctx context.Context, rawURL string, opts pipeline.RunOptions) (*model.Result, error)
}

// ResultLoader reads saved results by ID.
type ResultLoader interface {
	Load(id string) (*model.Result, error)
}

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	// RunTimeout bounds a single analysis run. Zero means no limit.
	RunTimeout time.Duration
}

// Server handles HTTP requests. Concurrent analyze requests for the same URL
// share one pipeline run.
type Server struct {
	runner  Runner
	results ResultLoader
	opts    Options
	flights singleflight.Group
}

// New creates a Server.
func New(runner Runner, results ResultLoader, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{runner: runner, results: results, opts: opts}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/results/{id}", s.handleResult)
	r.Get("/export/{id}/{format}", s.handleExport)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	URL          string `json:"url"`
	ForceRefresh bool   `json:"force_refresh"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	cleaned, err := scrape.CleanURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}

	key := cleaned
	if req.ForceRefresh {
		key += "#refresh"
	}
	// The run outlives any single caller so that callers sharing it are not
	// cancelled when the first one disconnects.
	v, err, shared := s.flights.Do(key, func() (any, error) {
		ctx := context.WithoutCancel(r.Context())
		if s.opts.RunTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
			defer cancel()
		}
		return s.runner.Run(ctx, cleaned, pipeline.RunOptions{ForceRefresh: req.ForceRefresh, Save: true})
	})
	if err != nil {
		zap.L().Error("server: analyze failed", zap.String("url", cleaned), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis failed: "+err.Error())
		return
	}
	if shared {
		zap.L().Debug("server: shared analyze run", zap.String("url", cleaned))
	}
	writeJSON(w, http.StatusOK, v.(*model.Result))
}

func (s *Server) loadResult(w http.ResponseWriter, id string) (*model.Result, bool) {
	res, err := s.results.Load(id)
	switch {
	case errors.Is(err, pipeline.ErrResultNotFound), errors.Is(err, pipeline.ErrInvalidResultID):
		writeError(w, http.StatusNotFound, "result not found")
		return nil, false
	case err != nil:
		zap.L().Error("server: load result", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load result")
		return nil, false
	}
	return res, true
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResult(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := s.loadResult(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res, format); err != nil {
		zap.L().Error("server: export", zap.String("id", res.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(res)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
		)
	})
}

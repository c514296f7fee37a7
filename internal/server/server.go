// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analysis history, derived summaries, and
// exports over a small JSON HTTP API for the web frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/internal/analyzer"
	"github.com/pdiddy/veripaper/internal/export"
	"github.com/pdiddy/veripaper/internal/history"
	"github.com/pdiddy/veripaper/internal/ingest"
	"github.com/pdiddy/veripaper/internal/score"
	"github.com/pdiddy/veripaper/pkg/types"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// Analyzer uploads a paper for scoring.
type Analyzer interface {
	AnalyzeReader(ctx context.Context, name string, r io.Reader) (types.AnalysisResult, error)
}

// errNotFound maps to 404.
var errNotFound = eris.New("history entry not found")

// Server holds the handlers' dependencies.
type Server struct {
	history    *history.Cache
	analyzer   Analyzer
	serviceURL string
	origins    []string
	now        func() time.Time
	log        *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAnalyzer enables POST /api/analyze. serviceURL resolves relative
// report links from the scoring service.
func WithAnalyzer(a Analyzer, serviceURL string) Option {
	return func(s *Server) {
		s.analyzer = a
		s.serviceURL = serviceURL
	}
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithClock sets the clock used to date export filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New returns a Server over h.
func New(h *history.Cache, opts ...Option) *Server {
	s := &Server{history: h, now: time.Now, log: zap.L()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(s.requestLogger)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Route("/api", func(r chi.Router) {
		if s.analyzer != nil {
			r.Post("/analyze", s.wrap(s.handleAnalyze))
		}
		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.wrap(s.handleList))
			r.Post("/", s.wrap(s.handlePush))
			r.Delete("/", s.wrap(s.handleClear))
			r.Get("/{id}", s.wrap(s.handleGet))
			r.Get("/{id}/summary", s.wrap(s.handleSummary))
			r.Get("/{id}/export/{kind}", s.wrap(s.handleExport))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps handler errors onto status codes. Error bodies use the
// {"detail": "..."} shape the frontend already reads from the scoring service.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			ve  *ingest.ValidationError
			pe  *export.PreconditionError
			se  *analyzer.ServiceError
			re  *analyzer.ResponseError
			mbe *http.MaxBytesError
		)
		status := http.StatusInternalServerError
		switch {
		case errors.As(err, &se), errors.As(err, &re):
			status = http.StatusBadGateway
		case errors.As(err, &ve):
			status = http.StatusBadRequest
		case errors.As(err, &mbe), eris.Is(err, analyzer.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case eris.Is(err, analyzer.ErrUnsupportedFile):
			status = http.StatusUnsupportedMediaType
		case errors.As(err, &pe):
			status = http.StatusConflict
		case eris.Is(err, errNotFound):
			status = http.StatusNotFound
		}

		msg := err.Error()
		if status == http.StatusInternalServerError {
			s.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			msg = "internal server error"
		}
		writeJSON(w, status, map[string]string{"detail": msg})
	}
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) entry(req *http.Request) (types.HistoryEntry, error) {
	id := chi.URLParam(req, "id")
	e, ok := s.history.Get(req.Context(), id)
	if !ok {
		return types.HistoryEntry{}, eris.Wrapf(errNotFound, "id %s", id)
	}
	return e, nil
}

// GET /api/history
func (s *Server) handleList(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, s.history.Load(req.Context()))
	return nil
}

// POST /api/history
// Body: one analysis result as returned by the scoring service.
func (s *Server) handlePush(w http.ResponseWriter, req *http.Request) error {
	result, err := ingest.Decode(http.MaxBytesReader(w, req.Body, MaxBodyBytes))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, s.history.Push(req.Context(), result))
	return nil
}

// DELETE /api/history
func (s *Server) handleClear(w http.ResponseWriter, req *http.Request) error {
	s.history.Clear(req.Context())
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/history/{id}
func (s *Server) handleGet(w http.ResponseWriter, req *http.Request) error {
	e, err := s.entry(req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, e)
	return nil
}

// GET /api/history/{id}/summary
func (s *Server) handleSummary(w http.ResponseWriter, req *http.Request) error {
	e, err := s.entry(req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, score.Summarize(e.AnalysisResult))
	return nil
}

// GET /api/history/{id}/export/{kind}
// A pdf export redirects to the service's report.
func (s *Server) handleExport(w http.ResponseWriter, req *http.Request) error {
	kind, err := export.ParseKind(chi.URLParam(req, "kind"))
	if err != nil {
		return &ingest.ValidationError{Field: "kind", Reason: err.Error()}
	}
	e, err := s.entry(req)
	if err != nil {
		return err
	}

	a, err := export.Render(kind, e.AnalysisResult, s.now())
	if err != nil {
		return err
	}
	if a.Location != "" {
		http.Redirect(w, req, export.ResolveReport(a.Location, s.serviceURL), http.StatusFound)
		return nil
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Content); err != nil {
		s.log.Warn("writing export failed", zap.String("id", e.ID), zap.Error(err))
	}
	return nil
}

// POST /api/analyze
// Body: multipart form with the paper under "file". The result is added
// to the history and returned.
func (s *Server) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, analyzer.MaxUploadBytes+MaxBodyBytes)
	f, hdr, err := req.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return &ingest.ValidationError{Field: "file", Reason: "multipart field \"file\" is required"}
	}
	defer f.Close()

	result, err := s.analyzer.AnalyzeReader(req.Context(), hdr.Filename, f)
	if err != nil {
		return err
	}
	s.history.Push(req.Context(), result)
	writeJSON(w, http.StatusOK, result)
	return nil
}

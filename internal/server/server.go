// Package server serves documentation blocks over HTTP so they can be
// previewed without touching any file.
//
// Routes:
//
//	GET /healthz                      liveness
//	GET /models                       every model and its table (JSON)
//	GET /models/{model}               the rendered block (text/plain)
//	GET /models/{model}/diagnostics   rows and diagnostics (JSON)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/schemainfo"
	"github.com/koustreak/aam/internal/translate"
)

const shutdownTimeout = 10 * time.Second

// Server renders blocks on request. Every request reads the provider
// again, so edits to the manifest or the database show on reload.
type Server struct {
	provider schema.Provider
	tr       translate.Translator
	opts     schemainfo.Options
	log      *logger.Logger
	router   chi.Router
}

// New builds the router. A nil logger discards request logs.
func New(p schema.Provider, tr translate.Translator, opts schemainfo.Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{provider: p, tr: tr, opts: opts, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.listModels)
		r.Get("/{model}", s.showModel)
		r.Get("/{model}/diagnostics", s.showDiagnostics)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("preview server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("preview server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// modelEntry is one item of GET /models.
type modelEntry struct {
	Model string `json:"model"`
	Table string `json:"table,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	models, err := s.provider.Models(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries := make([]modelEntry, 0, len(models))
	for _, m := range models {
		e := modelEntry{Model: m}
		if t, err := s.provider.Table(ctx, m); err != nil {
			e.Error = err.Error()
		} else {
			e.Table = t.Name
		}
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": entries})
}

func (s *Server) showModel(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyze(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rep.Text))
}

func (s *Server) showDiagnostics(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyze(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// analyze renders the model named in the path. Association targets are
// read lazily through the same provider.
func (s *Server) analyze(r *http.Request) (*schemainfo.Report, error) {
	ctx := r.Context()
	model := chi.URLParam(r, "model")
	t, err := s.provider.Table(ctx, model)
	if err != nil {
		return nil, err
	}
	gen := schemainfo.New(schema.NewProviderCatalog(ctx, s.provider), s.tr, s.opts, s.log)
	return gen.Analyze(t), nil
}

// statusOf maps an error kind to an HTTP status.
func statusOf(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed, errs.ErrKindProviderFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("request failed", err, map[string]any{"path": r.URL.Path})
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests writes one line per request with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.HTTPEvent().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

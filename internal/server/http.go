package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/present/format"
	"github.com/mithrel/notebook/internal/render"
)

const keepAliveInterval = 15 * time.Second

// Options configures the preview server.
type Options struct {
	// Sanitizer cleans HTML before it is served for display. The raw
	// converter output is still available in /api/note.
	Sanitizer    *render.Sanitizer
	MaxBodyBytes int64
	Log          zerolog.Logger
}

// Server exposes a notebook over HTTP: a live preview page, JSON and HTML
// endpoints, and a server-sent event stream of revisions.
type Server struct {
	nb   *notebook.Notebook
	opts Options
}

func New(nb *notebook.Notebook, opts Options) *Server {
	if opts.Sanitizer == nil {
		opts.Sanitizer = render.NewSanitizer()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Server{nb: nb, opts: opts}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/note", s.handleGetNote)
	mux.HandleFunc("PUT /api/note", s.handlePutNote)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	return s.logRequests(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.opts.Log.Info().Str("addr", ln.Addr().String()).Msg("serving preview")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sanitizedPreview returns the display-safe preview and the content it was
// rendered from.
func (s *Server) sanitizedPreview() (string, string, error) {
	snap, err := s.nb.Snapshot()
	if err != nil {
		return "", "", err
	}
	return s.opts.Sanitizer.Sanitize(snap.Preview), snap.Content, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, content, err := s.sanitizedPreview()
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = format.WritePage(w, format.Page{
		Title:      notebook.Title(content),
		Body:       template.HTML(body),
		LiveReload: true,
	})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	snap, err := s.nb.Snapshot()
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	etag := fmt.Sprintf(`"%d-%s"`, snap.Revision, snap.Fingerprint[:16])
	if notModified(w, r, etag) {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutNote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "note too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	s.nb.SetContent(string(body))

	snap, err := s.nb.Snapshot()
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, content, err := s.sanitizedPreview()
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	if notModified(w, r, `"`+notebook.Fingerprint(content)+`"`) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, body)
}

// handleEvents streams one "change" event per revision, starting with the
// current one. Bursts coalesce to the latest revision.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	changed := make(chan struct{}, 1)
	cancel := s.nb.Subscribe(func(notebook.Change) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func() error {
		if _, err := fmt.Fprintf(w, "event: change\ndata: {\"revision\":%d}\n\n", s.nb.Revision()); err != nil {
			return err
		}
		return rc.Flush()
	}
	if err := send(); err != nil {
		return
	}

	ping := time.NewTicker(keepAliveInterval)
	defer ping.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			if err := send(); err != nil {
				return
			}
		case <-ping.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Server) renderFailed(w http.ResponseWriter, err error) {
	s.opts.Log.Error().Err(err).Msg("render failed")
	http.Error(w, "render failed", http.StatusInternalServerError)
}

func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)
	for _, tag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if t := strings.TrimSpace(tag); t == etag || t == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/photofolio/internal/metrics"
	"github.com/vbonduro/photofolio/internal/photostore"
	"github.com/vbonduro/photofolio/internal/store"
)

// Page and partial template sets. Each page set is executed through "base".
var (
	galleryPage  = []string{"base.html", "pages/gallery.html", "partials/gallery_item.html", "partials/modal.html"}
	modalPartial = "partials/modal.html"
)

// runHistory is the part of the run store the health check reads.
type runHistory interface {
	Latest(ctx context.Context) (*store.Run, error)
}

type Server struct {
	sidecarPath string
	images      photostore.PhotoStore
	thumbs      photostore.PhotoStore
	runs        runHistory
	templates   fs.FS
	mux         *http.ServeMux
	tmplFuncs   template.FuncMap
	pages       map[string]*template.Template
	logger      *slog.Logger
}

// NewServer builds the gallery server. All templates are parsed up front so a
// broken or missing template fails at start rather than on first request.
func NewServer(sidecarPath string, images, thumbs photostore.PhotoStore, tmpl fs.FS, logger *slog.Logger) (*Server, error) {
	s := &Server{
		sidecarPath: sidecarPath,
		images:      images,
		thumbs:      thumbs,
		templates:   tmpl,
		mux:         http.NewServeMux(),
		logger:      logger,
		tmplFuncs: template.FuncMap{
			"inc": func(i int) int { return i + 1 },
		},
		pages: make(map[string]*template.Template),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithRunHistory makes /healthz report the most recent extraction run.
func (s *Server) WithRunHistory(runs runHistory) *Server {
	s.runs = runs
	return s
}

func (s *Server) parseTemplates() error {
	page, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, galleryPage...)
	if err != nil {
		return fmt.Errorf("failed to parse gallery templates: %w", err)
	}
	s.pages["gallery"] = page

	partial, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, modalPartial)
	if err != nil {
		return fmt.Errorf("failed to parse modal template: %w", err)
	}
	s.pages["modal"] = partial
	return nil
}

func (s *Server) registerRoutes() error {
	static, err := fs.Sub(s.templates, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", s.handleGallery)
	s.mux.HandleFunc("GET /photos/{index}", s.handlePhoto)
	s.mux.HandleFunc("GET /layout", s.handleLayout)
	s.mux.HandleFunc("GET /img/{name}", s.handleImage)
	s.mux.HandleFunc("GET /img/thumb/{name}", s.handleThumb)
	s.mux.HandleFunc("GET /photo_data.xml", s.handleSidecar)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	return nil
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// requestID tags each request with an ID, reusing a client-supplied one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", rec.Header().Get("X-Request-ID"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID(requestLogger(s.logger, metrics.Middleware(securityHeaders(s.mux)))).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr, "sidecar", s.sidecarPath)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage executes a full-page template set through "base".
func (s *Server) renderPage(w http.ResponseWriter, page string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.pages[page].ExecuteTemplate(w, "base", data)
}

// renderPartial executes the named {{define}} block of a partial set.
func (s *Server) renderPartial(w http.ResponseWriter, set, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.pages[set].ExecuteTemplate(w, name, data)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}

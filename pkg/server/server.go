// Package server is the local HTTP controls surface: it renders the
// session as a page and turns form posts and page-script requests into
// session operations.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/devicelab-dev/casesheet/pkg/logger"
	"github.com/devicelab-dev/casesheet/pkg/report"
	"github.com/devicelab-dev/casesheet/pkg/session"
)

// DefaultMaxUploadBytes caps request bodies (spreadsheets and pasted images).
const DefaultMaxUploadBytes = 64 << 20

// Options configures the server.
type Options struct {
	ReportTitle    string
	ReportFileName string
	MaxUploadBytes int64
}

// Server serves one session.
type Server struct {
	router  chi.Router
	session *session.Session
	opts    Options

	mu     sync.Mutex
	notice notice
}

type notice struct {
	msg  string
	kind string
}

// New creates a server for sess.
func New(sess *session.Session, opts Options) *Server {
	if opts.ReportTitle == "" {
		opts.ReportTitle = report.DefaultTitle
	}
	if opts.ReportFileName == "" {
		opts.ReportFileName = report.DefaultFileName
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		router:  chi.NewRouter(),
		session: sess,
		opts:    opts,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
			}
			next.ServeHTTP(w, r)
			logger.Debug("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
		})
	})

	s.router.Get("/", s.handleIndex)
	s.router.Post("/import", s.handleImport)
	s.router.Post("/sheet", s.handleSheet)
	s.router.Post("/mapping", s.handleMapping)
	s.router.Post("/mapping/raw", s.handleRawMapping)
	s.router.Post("/settings", s.handleSettings)
	s.router.Route("/cases/{case}/steps/{step}", func(r chi.Router) {
		r.Post("/actual", s.handleActual)
		r.Post("/result", s.handleResult)
		r.Post("/screenshot", s.handleScreenshot)
	})
	s.router.Get("/report", s.handleReport)
	s.router.Post("/reset", s.handleReset)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// flash stores a notice for the next page render.
func (s *Server) flash(msg, kind string) {
	s.mu.Lock()
	s.notice = notice{msg: msg, kind: kind}
	s.mu.Unlock()
}

func (s *Server) takeNotice() notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = notice{}
	return n
}

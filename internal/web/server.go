// Package web serves the quiz over HTTP: a JSON API, server-rendered pages and
// profile export.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/service"
	"github.com/emiliopalmerini/satchel/internal/shared/middleware"
)

type Server struct {
	svc    *service.Service
	router chi.Router
	addr   string
	log    *zap.Logger
}

func NewServer(svc *service.Service, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		svc:    svc,
		router: chi.NewRouter(),
		addr:   addr,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(s.log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.HTMX)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	r.Get("/", s.handleIndex)
	r.Get("/quiz/{slug}", s.handleStartPage)
	r.Get("/sessions/{id}", s.handleSessionPage)
	r.Post("/sessions/{id}/answer", s.handleAnswerForm)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/quizzes", s.handleAPIQuizzes)
		r.Post("/quizzes/{slug}/sessions", s.handleAPIStartSession)
		r.Get("/sessions/{id}", s.handleAPIGetSession)
		r.Post("/sessions/{id}/answers", s.handleAPIAnswer)
		r.Get("/profiles/{id}", s.handleAPIProfile)
		r.Get("/stats", s.handleAPIStats)
		r.Get("/export/profiles", s.handleAPIExportProfiles)
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully within
// shutdownTimeout.
func (s *Server) Start(ctx context.Context, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("http server listening", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error("server shutdown", zap.Error(err))
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Clark-Hu/genre-dashboard/internal/config"
	"github.com/Clark-Hu/genre-dashboard/internal/dashboard"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
	"github.com/Clark-Hu/genre-dashboard/internal/store"
	"github.com/Clark-Hu/genre-dashboard/web"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg       config.Config
	snapshot  *dashboard.Snapshot
	opts      dashboard.Options
	store     *store.Store
	logger    *zap.SugaredLogger
	templates *template.Template
	router    chi.Router
	httpSrv   *http.Server
}

// New constructs the HTTP server with base middleware and routes. st may be nil when the
// dataset was not loaded from Postgres.
func New(cfg config.Config, snap *dashboard.Snapshot, st *store.Store, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}

	tmpl, err := web.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		snapshot: snap,
		opts: dashboard.Options{
			CategoryCap: cfg.PieCategoryCap,
			TopN:        cfg.TopN,
		},
		store:     st,
		logger:    log,
		templates: tmpl,
		router:    r,
	}
	s.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSecs) * time.Second,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/charts", s.handleChartsPage)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/charts", s.handleCharts)
		r.Get("/summary", s.handleSummary)
	})
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails. On cancellation it shuts the
// server down and returns ctx.Err().
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type healthResponse struct {
	Status   string     `json:"status"`
	Movies   int        `json:"movies"`
	Database string     `json:"database,omitempty"`
	Pool     *poolStats `json:"pool,omitempty"`
}

type poolStats struct {
	TotalConns    int32 `json:"totalConns"`
	AcquiredConns int32 `json:"acquiredConns"`
	IdleConns     int32 `json:"idleConns"`
	MaxConns      int32 `json:"maxConns"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Movies: s.snapshot.Len()}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := s.store.HealthCheck(ctx)
		if stat := s.store.Stats(); stat != nil {
			resp.Pool = &poolStats{
				TotalConns:    stat.TotalConns(),
				AcquiredConns: stat.AcquiredConns(),
				IdleConns:     stat.IdleConns(),
				MaxConns:      stat.MaxConns(),
			}
		}
		if err != nil {
			logger.FromCtx(r.Context()).Warnw("database health check failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			s.respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}
	s.respondJSON(w, http.StatusOK, resp)
}

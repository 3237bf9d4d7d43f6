package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MyelinBots/vitals-go/config"
	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/healthcheck"
	"github.com/MyelinBots/vitals-go/internal/metrics"
	"github.com/MyelinBots/vitals-go/internal/services/auth"
	"github.com/MyelinBots/vitals-go/internal/services/food"
	"github.com/MyelinBots/vitals-go/internal/services/ledger"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition"
	"github.com/MyelinBots/vitals-go/internal/services/profile"
	"github.com/MyelinBots/vitals-go/internal/services/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SessionCookie   = "vitals_session"
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	sessions *session.Manager
	guard    *session.Guard
	pinger   healthcheck.Pinger

	auth    *auth.Service
	food    *food.Service
	ledger  *ledger.Service
	profile *profile.Service

	engine *gin.Engine
}

// New wires the services over store. pinger may be nil when there is no
// database behind the store.
func New(cfg config.Config, store repositories.Store, pinger healthcheck.Pinger, client nutrition.Client, logger *slog.Logger) (*Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	sessions, err := session.NewManager(cfg.AuthConfig.JWTSecret, cfg.AuthConfig.SessionTTL)
	if err != nil {
		return nil, err
	}
	authSvc, err := auth.NewService(store, auth.NewBcryptHasher(cfg.AuthConfig.BcryptCost), sessions, logger)
	if err != nil {
		return nil, err
	}
	ledgerSvc := ledger.NewService(store)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		sessions: sessions,
		guard:    session.NewGuard(sessions, store.Users()),
		pinger:   pinger,
		auth:     authSvc,
		food:     food.NewService(store, client, m, logger),
		ledger:   ledgerSvc,
		profile:  profile.NewService(store, ledgerSvc, logger),
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		s.requestID(),
		s.requestLogger(),
		s.observe(),
		gin.CustomRecovery(s.recover),
	)

	r.GET("/healthz", healthcheck.Handler(s.pinger, s.logger))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)

	protected := r.Group("/")
	protected.Use(s.RequireSession())
	{
		protected.GET("/me", s.me)
		protected.PUT("/me/goals", s.updateGoals)

		protected.POST("/measurements", s.submitMeasurement)
		protected.GET("/measurements", s.listMeasurements)

		protected.POST("/foods/search", s.searchFood)
		protected.GET("/foods/recent", s.recentFoods)

		protected.POST("/consumptions", s.logConsumption)
		protected.GET("/consumptions", s.listConsumptions)
		protected.DELETE("/consumptions/:id", s.deleteConsumption)

		protected.GET("/dashboard", s.dashboard)
	}
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.cfg.AppConfig.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

// Package httpapi exposes the credential service over HTTP/JSON. It is a
// thin boundary layer: it decodes requests, delegates to users.Service, and
// maps the service's typed errors onto status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spolyakov/passport/internal/logging"
	"github.com/spolyakov/passport/internal/server/config"
	"github.com/spolyakov/passport/internal/server/metrics"
	"github.com/spolyakov/passport/internal/server/users"
)

const serviceName = "passport"

type Server struct {
	address   string
	logger    logging.Logger
	users     *users.Service
	metrics   *metrics.Metrics
	accessTTL time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, us *users.Service, m *metrics.Metrics) *Server {
	return &Server{
		address:   cfg.EndpointAddr,
		logger:    l.With("module", "http_server"),
		users:     us,
		metrics:   m,
		accessTTL: cfg.AccessTokenTTL,
	}
}

// Routes assembles the router with all endpoints and middleware.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.metricsMiddleware)

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.Handle("/auth/me", s.requireAuth(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

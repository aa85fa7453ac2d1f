// Package server initializes and runs the credential service. It wires the
// configuration, storage backend, password hasher, token codec and HTTP API
// together, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spolyakov/passport/internal/logging"
	"github.com/spolyakov/passport/internal/server/config"
	"github.com/spolyakov/passport/internal/server/httpapi"
	"github.com/spolyakov/passport/internal/server/metrics"
	"github.com/spolyakov/passport/internal/server/password"
	"github.com/spolyakov/passport/internal/server/shared/db"
	"github.com/spolyakov/passport/internal/server/token"
	"github.com/spolyakov/passport/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	rm, err := newRepositoryManager(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := password.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec, err := token.NewCodec(token.Options{
		Secret: []byte(cfg.SecretKey),
		Leeway: cfg.TokenLeeway,
	})
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	us := users.NewService(rm.Users(), hasher, codec, cfg)
	srv := httpapi.NewServer(cfg, logger, us, metrics.NewMetrics())

	return &App{config: cfg, logger: logger, server: srv}, nil
}

// newRepositoryManager selects the storage backend. An empty DSN means the
// in-memory store, which keeps local development free of external services.
func newRepositoryManager(ctx context.Context, cfg *config.Config, logger logging.Logger) (db.RepositoryManager, error) {
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory store")
		return db.NewInMemoryRepositoryManager(), nil
	}
	return db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

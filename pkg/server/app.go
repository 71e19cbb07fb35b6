// Package server owns the application lifecycle.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Assemblief/internal/usecase"
	"Assemblief/pkg/config"
	xhttp "Assemblief/pkg/http"
	applogger "Assemblief/pkg/logger"
)

// App bundles the use cases with the HTTP server that exposes them.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server

	Analytics *usecase.AnalyticsUseCase
	Ranker    *usecase.Ranker
	Replayer  *usecase.Replayer
}

// New creates an App.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	analytics *usecase.AnalyticsUseCase,
	ranker *usecase.Ranker,
	replayer *usecase.Replayer,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		Analytics:  analytics,
		Ranker:     ranker,
		Replayer:   replayer,
	}
}

// Logger returns the application logger.
func (a *App) Logger() *applogger.Logger { return a.log }

// Run starts the HTTP server and blocks until ctx is done or SIGINT/SIGTERM
// arrives, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("service started",
		applogger.String("name", a.cfg.App.Name),
		applogger.String("env", a.cfg.App.Environment),
		applogger.String("addr", a.httpServer.Addr()),
		applogger.String("store", a.cfg.Store.Type),
		applogger.Bool("redis", a.cfg.Redis.Enabled),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	return nil
}

package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"AssetRadar/internal/domain/repository"
	"AssetRadar/internal/usecase"
	pkgch "AssetRadar/pkg/clickhouse"
	"AssetRadar/pkg/config"
	xhttp "AssetRadar/pkg/http"
	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *usecase.Scheduler
	queue      *queue.Queue
	chClient   *pkgch.Client
	publisher  repository.ResultPublisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	scheduler *usecase.Scheduler,
	q *queue.Queue,
	chClient *pkgch.Client,
	publisher repository.ResultPublisher,
) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		httpServer: httpServer,
		scheduler:  scheduler,
		queue:      q,
		chClient:   chClient,
		publisher:  publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	a.scheduler.Start(ctx)
	if len(a.cfg.Schedule.Times) > 0 {
		a.logger.Info("scheduler started", applogger.Strings("times", a.cfg.Schedule.Times))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Drains queued email deliveries before exit.
	if a.queue != nil {
		a.queue.Close()
	}

	if c, ok := a.publisher.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

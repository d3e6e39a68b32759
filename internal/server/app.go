// Package server initializes and runs the healthsync server: it builds the
// logger, the store connector and services, serves the HTTP API and shuts
// down gracefully on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/healthsync/internal/logging"
	"github.com/dmitrijs2005/healthsync/internal/server/config"
	"github.com/dmitrijs2005/healthsync/internal/server/httpapi"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthsync/internal/server/services"
	"github.com/dmitrijs2005/healthsync/internal/server/shared/db"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	http      *httpapi.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	logger, closer, err := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	connector := db.NewConnector(c.ConnectTimeout)
	syncService := services.NewSyncService(connector, repomanager.NewPostgresRepositoryManager(), c, logger)
	probeService := services.NewProbeService(connector, logger)

	h, err := httpapi.NewHTTPServer(c, logger, syncService, probeService)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, logCloser: closer, http: h}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.logCloser.Close()

	app.logger.Info(ctx, "Starting app...",
		"address", app.config.ListenAddr,
		"pullFloor", app.config.PullFloor.String(),
		"connectTimeout", app.config.ConnectTimeout.String(),
	)

	app.initSignalHandler(cancelFunc)

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

// Package httpapi exposes the sync, pull and probe operations as JSON
// endpoints under /api/database, plus health and metrics.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/logging"
	sc "github.com/dmitrijs2005/healthsync/internal/server/config"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

// Syncer merges pushed batches and serves pulls.
type Syncer interface {
	Push(ctx context.Context, storeType, dsn string, batch *models.SyncBatch) (models.SyncCounts, error)
	Pull(ctx context.Context, storeType, dsn string, lastSync int64) (*models.PullResult, error)
}

// Prober answers diagnostic requests.
type Prober interface {
	Test(ctx context.Context, storeType, dsn string) (string, error)
	Inspect(ctx context.Context, dsn string) (*models.Inspection, error)
}

type HTTPServer struct {
	config  *sc.Config
	logger  logging.Logger
	sync    Syncer
	probe   Prober
	metrics *Metrics
	schemas *requestSchemas
}

func NewHTTPServer(c *sc.Config, l logging.Logger, sync Syncer, probe Prober) (*HTTPServer, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &HTTPServer{
		config:  c,
		logger:  l.With("module", "http_server"),
		sync:    sync,
		probe:   probe,
		metrics: NewMetrics(),
		schemas: schemas,
	}, nil
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metricz", s.handleMetrics)

	mux.HandleFunc("POST /api/database/test", s.handleTest)
	mux.HandleFunc("POST /api/database/sync", s.handleSync)
	mux.HandleFunc("POST /api/database/pull", s.handlePull)
	mux.HandleFunc("POST /api/database/inspect", s.handleInspect)

	return chain(mux,
		requestIDMiddleware,
		s.loggerMiddleware,
		metricsMiddleware(s.metrics),
		s.recoveryMiddleware,
		s.loggingMiddleware,
		maxBytesMiddleware(s.config.MaxBodyBytes),
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

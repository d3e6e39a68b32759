package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/logging"
	"github.com/dmitrijs2005/healthsync/internal/server/config"
	"github.com/stretchr/testify/require"
)

func newRunServer(t *testing.T, addr string) *HTTPServer {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ListenAddr = addr
	cfg.ShutdownTimeout = time.Second
	srv, err := NewHTTPServer(cfg, logging.Discard(), &fakeSyncer{}, &fakeProber{})
	require.NoError(t, err)
	return srv
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newRunServer(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "Run returned error on graceful stop")
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newRunServer(t, "127.0.0.1:99999")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.Error(t, srv.Run(ctx))
}

func TestCompileSchemas(t *testing.T) {
	s, err := compileSchemas()
	require.NoError(t, err)
	require.NotNil(t, s.test)
	require.NotNil(t, s.sync)
	require.NotNil(t, s.pull)
	require.NotNil(t, s.inspect)

	require.NoError(t, validateBody(s.pull, []byte(`{"connectionString":"postgres://x","type":"postgresql","lastSyncTimestamp":0}`)))
	require.ErrorContains(t, validateBody(s.pull, []byte(`{"type":"postgresql"}`)), "invalid request")
	require.ErrorContains(t, validateBody(s.pull, []byte(`[`)), "valid JSON")
}

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/htmx-demo/internal/config"
)

func testServerConfig(t *testing.T) config.ServerConfig {
	t.Helper()
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("SERVER_HOST", "")
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	return cfg
}

func TestNewServer(t *testing.T) {
	cfg := testServerConfig(t)
	s := NewServer(cfg, http.NotFoundHandler())

	assert.Equal(t, "127.0.0.1:0", s.Addr())
	assert.Equal(t, cfg.ReadTimeout(), s.server.ReadTimeout)
	assert.Equal(t, cfg.WriteTimeout(), s.server.WriteTimeout)
	assert.NotNil(t, s.Handler())
}

func TestShutdownBeforeListen(t *testing.T) {
	s := NewServer(testServerConfig(t), http.NotFoundHandler())

	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, s.ListenAndServe(), http.ErrServerClosed)
}

func TestShutdownWhileServing(t *testing.T) {
	s := NewServer(testServerConfig(t), http.NotFoundHandler())

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after Shutdown")
	}
}

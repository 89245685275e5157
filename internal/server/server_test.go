package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_WithoutSetup(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Config: config.Default(), Logger: &logger}

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestSetupHTTPServer_AppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = "9090"
	s := &Server{Config: cfg}

	s.SetupHTTPServer(http.NotFoundHandler())

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":9090", s.httpServer.Addr)
	assert.Equal(t, float64(cfg.Server.ReadTimeout), s.httpServer.ReadTimeout.Seconds())
	assert.Equal(t, float64(cfg.Server.IdleTimeout), s.httpServer.IdleTimeout.Seconds())
}

func TestShutdown_WithoutDatabase(t *testing.T) {
	s := &Server{Config: config.Default()}
	s.SetupHTTPServer(http.NotFoundHandler())

	assert.NoError(t, s.Shutdown(context.Background()))
}

package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront/internal/config"
)

func TestNew_UsesConfiguredTimeouts(t *testing.T) {
	cfg := config.ServerConfig{Port: 9091, ReadTimeout: 3 * time.Second, WriteTimeout: 7 * time.Second}
	s := New(cfg, http.NotFoundHandler(), zap.NewNop())

	assert.Equal(t, ":9091", s.Addr())
	assert.Equal(t, 3*time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 7*time.Second, s.httpServer.WriteTimeout)
}

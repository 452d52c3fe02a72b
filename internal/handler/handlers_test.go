package handler

import (
	"testing"

	"github.com/kheti-sahayak/logbook-sync/internal/config"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlers(t *testing.T) {
	services := &service.Services{}

	t.Run("success: http handler created", func(t *testing.T) {
		handlers, err := NewHandlers(services, config.Server{HTTPAddress: "localhost:8080"}, logger.Nop())

		require.NoError(t, err)
		require.NotNil(t, handlers)
		assert.NotNil(t, handlers.HTTP)
	})

	t.Run("error: no address configured", func(t *testing.T) {
		handlers, err := NewHandlers(services, config.Server{}, logger.Nop())

		require.Error(t, err)
		assert.Nil(t, handlers)
	})
}

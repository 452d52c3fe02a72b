package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/service"
)

type Handler struct {
	services *service.Services

	// validate checks create-entry payloads against the struct tags declared
	// on the request models. Sync payloads are deliberately not validated
	// here: offline batches are applied as the client recorded them.
	validate *validator.Validate

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		validate: validator.New(),
		logger:   logger,
	}
}

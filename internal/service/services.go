package service

import (
	"github.com/kheti-sahayak/logbook-sync/internal/config"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/store"
	"github.com/kheti-sahayak/logbook-sync/internal/utils"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	LogbookService LogbookService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	ids := utils.NewUUIDGenerator()

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		SyncService:    NewSyncService(storages.LogbookStorage, ids, logger),
		LogbookService: NewLogbookService(storages.LogbookStorage, ids, logger),
	}
}

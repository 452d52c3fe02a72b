package service

import (
	"context"

	"github.com/kheti-sahayak/logbook-sync/models"
)

type SyncService interface {
	Sync(ctx context.Context, userID string, request models.SyncRequest) (models.SyncResult, error)
}

type LogbookService interface {
	List(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error)
	Create(ctx context.Context, userID string, request models.CreateEntryRequest) (models.LogbookEntry, error)
	Delete(ctx context.Context, entryID, userID string) error
}

type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// IDGenerator mints identifiers for entries created server-side.
// Satisfied by [utils.UUIDGenerator]; tests substitute deterministic values.
type IDGenerator interface {
	Generate() string
}

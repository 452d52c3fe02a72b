package service

import (
	"context"
	"fmt"

	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/store"
	"github.com/kheti-sahayak/logbook-sync/models"
)

// Paging defaults applied when a caller supplies no (or nonsense) values.
const (
	defaultPage  = 1
	defaultLimit = 20
)

// logbookService is the concrete implementation of LogbookService. It serves
// the plain CRUD surface used by the mobile app when it is online, next to
// the sync endpoint that the same storage serves for offline batches.
type logbookService struct {
	logbookStorage store.LogbookStorage
	ids            IDGenerator
	logger         *logger.Logger
}

// NewLogbookService constructs a LogbookService wired to the given storage.
func NewLogbookService(logbookStorage store.LogbookStorage, ids IDGenerator, logger *logger.Logger) LogbookService {
	return &logbookService{
		logbookStorage: logbookStorage,
		ids:            ids,
		logger:         logger,
	}
}

// List returns one page of the owner's live entries. Non-positive page or
// limit values fall back to the defaults rather than erroring: paging
// parameters arrive straight from query strings.
func (l *logbookService) List(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Str("func", "logbookService.List").Msg("no user ID provided")
		return nil, ErrInvalidDataProvided
	}

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	entries, err := l.logbookStorage.List(ctx, userID, page, limit)
	if err != nil {
		log.Err(err).
			Str("func", "logbookService.List").
			Str("user_id", userID).
			Msg("listing logbook entries ended with error")
		return nil, fmt.Errorf("listing logbook entries ended with error: %w", err)
	}

	return entries, nil
}

// Create mints a server id for the new entry and persists it with version 1.
func (l *logbookService) Create(ctx context.Context, userID string, request models.CreateEntryRequest) (models.LogbookEntry, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Str("func", "logbookService.Create").Msg("no user ID provided")
		return models.LogbookEntry{}, ErrInvalidDataProvided
	}

	entry := models.LogbookEntry{
		ID:           l.ids.Generate(),
		UserID:       userID,
		ActivityType: request.ActivityType,
		Date:         request.Date,
		Description:  request.Description,
		Cost:         request.Cost,
		Income:       request.Income,
	}

	if err := l.logbookStorage.Create(ctx, &entry); err != nil {
		log.Err(err).
			Str("func", "logbookService.Create").
			Str("user_id", userID).
			Msg("logbook entry creation ended with error")
		return models.LogbookEntry{}, fmt.Errorf("logbook entry creation ended with error: %w", err)
	}

	return entry, nil
}

// Delete tombstones the entry. The record stays in storage so that the
// owner's other devices observe the deletion on their next sync.
func (l *logbookService) Delete(ctx context.Context, entryID, userID string) error {
	log := logger.FromContext(ctx)

	if entryID == "" || userID == "" {
		log.Error().
			Str("func", "logbookService.Delete").
			Str("entry_id", entryID).
			Msg("invalid delete request")
		return ErrInvalidDataProvided
	}

	if err := l.logbookStorage.SoftDelete(ctx, entryID, userID); err != nil {
		log.Err(err).
			Str("func", "logbookService.Delete").
			Str("entry_id", entryID).
			Str("user_id", userID).
			Msg("logbook entry deletion ended with error")
		return fmt.Errorf("logbook entry deletion ended with error: %w", err)
	}

	return nil
}

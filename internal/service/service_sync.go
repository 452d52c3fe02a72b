// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/store"
	"github.com/kheti-sahayak/logbook-sync/models"
)

// recordNotFoundMessage is the per-item error text reported to clients when a
// submitted change references an entry that does not exist under their
// ownership. Mobile clients match on this text to clear their local copy.
const recordNotFoundMessage = "Record not found"

// syncService is the concrete implementation of SyncService. It coordinates
// one full sync exchange: apply the client's batch in submission order,
// compute the server-side delta, and capture the next checkpoint — all
// inside a single storage transaction.
type syncService struct {
	// logbookStorage provides the transactional scope and all statements
	// used during an exchange.
	logbookStorage store.LogbookStorage

	// ids mints server identifiers for entries created by changes that
	// arrive without an id.
	ids IDGenerator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewSyncService constructs a SyncService wired to the given storage.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewSyncService(logbookStorage store.LogbookStorage, ids IDGenerator, logger *logger.Logger) SyncService {
	return &syncService{
		logbookStorage: logbookStorage,
		ids:            ids,
		logger:         logger,
	}
}

// Sync performs one exchange for the given owner.
//
// The exchange runs inside a single transaction:
//
//  1. The next checkpoint is read from the database clock, before any write,
//     so that concurrent commits after this instant fall into the next
//     exchange's window.
//  2. Every submitted change is applied strictly in submission order.
//     A change carrying an id overwrites the referenced entry (unconditional
//     last-write-wins); a change without an id mints a new entry with a
//     server identifier. A change referencing a missing entry yields a
//     per-item error outcome and does not disturb the rest of the batch.
//  3. The server delta is computed: every entry of the owner modified after
//     the client's previous checkpoint, minus the ids this very batch
//     touched — the client already holds those values.
//
// Any infrastructure failure rolls the whole exchange back and is returned
// as-is; the client may safely resubmit the identical batch.
func (s *syncService) Sync(ctx context.Context, userID string, request models.SyncRequest) (models.SyncResult, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Str("func", "syncService.Sync").Msg("no user ID provided")
		return models.SyncResult{}, ErrInvalidDataProvided
	}

	var result models.SyncResult

	err := s.logbookStorage.RunSync(ctx, func(tx store.SyncTx) error {
		checkpoint, err := tx.Checkpoint(ctx)
		if err != nil {
			return err
		}
		result.NewCheckpoint = checkpoint

		processed := make([]models.ProcessedChange, 0, len(request.Changes))
		touchedIDs := make([]string, 0, len(request.Changes))
		seen := make(map[string]struct{}, len(request.Changes))

		for idx, change := range request.Changes {
			log.Debug().
				Str("func", "syncService.Sync").
				Int("iteration", idx+1).
				Int("total", len(request.Changes)).
				Str("user_id", userID).
				Int64("local_id", change.LocalID).
				Msg("applying client change")

			outcome, applyErr := s.applyChange(ctx, tx, userID, change)
			if applyErr != nil {
				log.Err(applyErr).
					Str("func", "syncService.Sync").
					Int("iteration", idx+1).
					Str("user_id", userID).
					Msg("failed to apply client change")
				return applyErr
			}

			processed = append(processed, outcome)

			// Both the client-referenced id and the server-assigned id count
			// as touched: neither may echo back in the delta.
			for _, id := range []string{change.ID, outcome.BackendID} {
				if id == "" {
					continue
				}
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				touchedIDs = append(touchedIDs, id)
			}
		}

		serverChanges, deltaErr := tx.Delta(ctx, userID, request.LastSyncTimestamp, touchedIDs)
		if deltaErr != nil {
			return deltaErr
		}

		result.ServerChanges = serverChanges
		result.Processed = processed

		return nil
	})
	if err != nil {
		return models.SyncResult{}, err
	}

	log.Info().
		Str("func", "syncService.Sync").
		Str("user_id", userID).
		Int("changes_count", len(request.Changes)).
		Int("server_changes_count", len(result.ServerChanges)).
		Msg("sync exchange completed")

	return result, nil
}

// applyChange applies a single client change inside the exchange transaction.
//
// Outcomes:
//   - change.ID set, entry exists  → overwrite, report the bumped version.
//   - change.ID set, entry missing → per-item error outcome, nil error:
//     the batch continues.
//   - change.ID empty              → insert a new entry under a freshly
//     minted server id, report id and version 1.
//
// A non-nil error is reserved for infrastructure failures and aborts the
// whole exchange.
func (s *syncService) applyChange(ctx context.Context, tx store.SyncTx, userID string, change models.ClientChange) (models.ProcessedChange, error) {
	log := logger.FromContext(ctx)

	if change.ID != "" {
		newVersion, err := tx.OverwriteEntry(ctx, userID, change)
		if err != nil {
			if errors.Is(err, store.ErrEntryNotFound) {
				log.Warn().
					Str("func", "syncService.applyChange").
					Str("entry_id", change.ID).
					Str("user_id", userID).
					Msg("client change references unknown entry")

				return models.ProcessedChange{
					LocalID:   change.LocalID,
					BackendID: change.ID,
					Status:    models.ChangeStatusError,
					Error:     recordNotFoundMessage,
				}, nil
			}

			return models.ProcessedChange{}, err
		}

		return models.ProcessedChange{
			LocalID:   change.LocalID,
			BackendID: change.ID,
			Status:    models.ChangeStatusSynced,
			Version:   newVersion,
		}, nil
	}

	entry := &models.LogbookEntry{
		ID:           s.ids.Generate(),
		UserID:       userID,
		ActivityType: change.ActivityType,
		Date:         change.Date,
		Description:  change.Description,
		Cost:         change.Cost,
		Income:       change.Income,
	}

	if err := tx.InsertEntry(ctx, entry); err != nil {
		return models.ProcessedChange{}, err
	}

	return models.ProcessedChange{
		LocalID:   change.LocalID,
		BackendID: entry.ID,
		Status:    models.ChangeStatusSynced,
		Version:   entry.Version,
	}, nil
}

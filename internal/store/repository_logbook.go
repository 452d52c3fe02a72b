// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/models"
)

// logbookRepository is the PostgreSQL-backed implementation of
// [LogbookStorage]. It executes all logbook CRUD and sync operations
// directly against the "logbook" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (user_id, entry_id, change index, etc.).
type logbookRepository struct {
	*DB
	logger *logger.Logger
}

// NewLogbookRepository constructs a [LogbookStorage] backed by the provided
// database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewLogbookRepository(db *DB, logger *logger.Logger) LogbookStorage {
	return &logbookRepository{
		DB:     db,
		logger: logger,
	}
}

// List returns one page of the owner's live logbook entries, newest activity
// date first. Tombstoned entries never appear in listings.
func (r *logbookRepository) List(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(ctx, userID, page, limit)
	if err != nil {
		log.Err(err).
			Str("func", "logbookRepository.List").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "logbookRepository.List").
			Str("user_id", userID).
			Int("page", page).
			Int("limit", limit).
			Msg("failed to execute query for listing logbook entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	entries, err := scanEntries(ctx, rows, userID, "logbookRepository.List")
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Create inserts a new logbook entry with version 1.
//
// The caller is responsible for minting entry.ID. Version, CreatedAt and
// LastModified are written back from the INSERT … RETURNING clause so the
// caller sees exactly what the database recorded.
func (r *logbookRepository) Create(ctx context.Context, entry *models.LogbookEntry) error {
	log := logger.FromContext(ctx)

	log.Debug().
		Str("func", "logbookRepository.Create").
		Str("entry_id", entry.ID).
		Str("user_id", entry.UserID).
		Msg("inserting new logbook entry")

	err := r.DB.QueryRowContext(ctx, insertLogbookEntry,
		entry.ID,
		entry.UserID,
		entry.ActivityType,
		entry.Date,
		entry.Description,
		entry.Cost,
		entry.Income,
	).Scan(&entry.Version, &entry.CreatedAt, &entry.LastModified)

	if err != nil {
		log.Err(err).
			Str("func", "logbookRepository.Create").
			Str("entry_id", entry.ID).
			Str("user_id", entry.UserID).
			Str("pg_code", postgresError(err)).
			Msg("failed to insert logbook entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// SoftDelete tombstones a single live entry owned by userID.
//
// The UPDATE matches only rows with deleted = false, so deleting an already
// tombstoned (or missing, or foreign-owned) entry yields no row and the
// method returns [ErrEntryNotFound]. The row itself is never removed: the
// tombstone must survive so that other devices learn of the deletion on
// their next sync.
func (r *logbookRepository) SoftDelete(ctx context.Context, entryID, userID string) error {
	log := logger.FromContext(ctx)

	var deletedID string

	err := r.DB.QueryRowContext(ctx, softDeleteLogbookEntry, entryID, userID).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().
				Str("func", "logbookRepository.SoftDelete").
				Str("entry_id", entryID).
				Str("user_id", userID).
				Msg("entry not found or already deleted")
			return ErrEntryNotFound
		}

		log.Err(err).
			Str("func", "logbookRepository.SoftDelete").
			Str("entry_id", entryID).
			Str("user_id", userID).
			Msg("failed to execute soft delete query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Info().
		Str("func", "logbookRepository.SoftDelete").
		Str("entry_id", deletedID).
		Str("user_id", userID).
		Msg("successfully soft-deleted logbook entry")

	return nil
}

// RunSync opens a database transaction and invokes fn with a [SyncTx] bound
// to it. If fn returns nil the transaction is committed; any error from fn
// (or from the commit itself) leaves the database untouched — the deferred
// rollback discards every statement the exchange executed.
//
// On failure the wrapped error is classified via the repository's
// [ErrorClassificator] so operators can tell transient failures (retryable:
// connection drops, deadlocks) from permanent ones in the logs.
func (r *logbookRepository) RunSync(ctx context.Context, fn func(tx SyncTx) error) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "logbookRepository.RunSync").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if fnErr := fn(&syncTx{tx: tx}); fnErr != nil {
		log.Err(fnErr).
			Str("func", "logbookRepository.RunSync").
			Bool("retryable", r.errorClassificator.Classify(fnErr) == Retryable).
			Msg("sync exchange failed, rolling back")
		return fnErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "logbookRepository.RunSync").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// syncTx implements [SyncTx] over one open *sql.Tx. All statements issued
// through it share the transaction's snapshot and roll back together.
type syncTx struct {
	tx *sql.Tx
}

// Checkpoint reads the database clock inside the transaction. Using the
// database's own now() instead of the application clock keeps the checkpoint
// comparable with the last_modified stamps the same database writes.
func (s *syncTx) Checkpoint(ctx context.Context) (time.Time, error) {
	log := logger.FromContext(ctx)

	var checkpoint time.Time

	err := s.tx.QueryRowContext(ctx, selectCheckpoint).Scan(&checkpoint)
	if err != nil {
		log.Err(err).
			Str("func", "syncTx.Checkpoint").
			Msg("failed to read database clock")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return checkpoint, nil
}

// InsertEntry mints a new row with version 1 inside the sync transaction.
// Version, CreatedAt and LastModified are populated from the RETURNING clause.
func (s *syncTx) InsertEntry(ctx context.Context, entry *models.LogbookEntry) error {
	log := logger.FromContext(ctx)

	err := s.tx.QueryRowContext(ctx, insertLogbookEntry,
		entry.ID,
		entry.UserID,
		entry.ActivityType,
		entry.Date,
		entry.Description,
		entry.Cost,
		entry.Income,
	).Scan(&entry.Version, &entry.CreatedAt, &entry.LastModified)

	if err != nil {
		log.Err(err).
			Str("func", "syncTx.InsertEntry").
			Str("entry_id", entry.ID).
			Str("user_id", entry.UserID).
			Str("pg_code", postgresError(err)).
			Msg("failed to insert logbook entry in sync transaction")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// OverwriteEntry replaces every mutable field of the entry identified by
// (change.ID, userID) with the client's values, bumps the version and
// refreshes last_modified. The client's own version number is never written:
// the server's version counter is the single source of truth.
//
// Returns the post-update version, or [ErrEntryNotFound] when the UPDATE
// matched no row under the caller's ownership.
func (s *syncTx) OverwriteEntry(ctx context.Context, userID string, change models.ClientChange) (int64, error) {
	log := logger.FromContext(ctx)

	var newVersion int64

	err := s.tx.QueryRowContext(ctx, overwriteLogbookEntry,
		change.ActivityType,
		change.Date,
		change.Description,
		change.Cost,
		change.Income,
		change.Deleted,
		change.ID,
		userID,
	).Scan(&newVersion)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().
				Str("func", "syncTx.OverwriteEntry").
				Str("entry_id", change.ID).
				Str("user_id", userID).
				Msg("entry not found")
			return 0, ErrEntryNotFound
		}

		log.Err(err).
			Str("func", "syncTx.OverwriteEntry").
			Str("entry_id", change.ID).
			Str("user_id", userID).
			Msg("failed to execute overwrite query")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return newVersion, nil
}

// Delta returns the owner's entries modified after since, excluding the ids
// the current batch just wrote, ordered by (last_modified, id) ascending.
func (s *syncTx) Delta(ctx context.Context, userID string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeltaQuery(ctx, userID, since, excludeIDs)
	if err != nil {
		log.Err(err).
			Str("func", "syncTx.Delta").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := s.tx.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "syncTx.Delta").
			Str("user_id", userID).
			Int("excluded ids count", len(excludeIDs)).
			Msg("failed to execute query for computing server delta")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	entries, err := scanEntries(ctx, rows, userID, "syncTx.Delta")
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// scanEntries drains rows into logbook entries following the
// [logbookColumns] order.
func scanEntries(ctx context.Context, rows *sql.Rows, userID, caller string) ([]models.LogbookEntry, error) {
	log := logger.FromContext(ctx)

	entries := make([]models.LogbookEntry, 0, 50)

	for rows.Next() {
		var entry models.LogbookEntry

		scanErr := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ActivityType,
			&entry.Date,
			&entry.Description,
			&entry.Cost,
			&entry.Income,
			&entry.Deleted,
			&entry.Version,
			&entry.CreatedAt,
			&entry.LastModified,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", caller).
				Str("user_id", userID).
				Msg("failed to scan logbook entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", caller).
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

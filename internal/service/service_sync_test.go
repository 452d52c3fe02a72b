// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/store"
	"github.com/kheti-sahayak/logbook-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock: store.LogbookStorage / store.SyncTx
// ─────────────────────────────────────────────

type mockSyncTx struct {
	checkpointFn func(ctx context.Context) (time.Time, error)
	insertFn     func(ctx context.Context, entry *models.LogbookEntry) error
	overwriteFn  func(ctx context.Context, userID string, change models.ClientChange) (int64, error)
	deltaFn      func(ctx context.Context, userID string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error)
}

func (m *mockSyncTx) Checkpoint(ctx context.Context) (time.Time, error) {
	if m.checkpointFn != nil {
		return m.checkpointFn(ctx)
	}
	return time.Time{}, nil
}

func (m *mockSyncTx) InsertEntry(ctx context.Context, entry *models.LogbookEntry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, entry)
	}
	entry.Version = 1
	return nil
}

func (m *mockSyncTx) OverwriteEntry(ctx context.Context, userID string, change models.ClientChange) (int64, error) {
	if m.overwriteFn != nil {
		return m.overwriteFn(ctx, userID, change)
	}
	return 2, nil
}

func (m *mockSyncTx) Delta(ctx context.Context, userID string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error) {
	if m.deltaFn != nil {
		return m.deltaFn(ctx, userID, since, excludeIDs)
	}
	return nil, nil
}

type mockLogbookStorage struct {
	tx           *mockSyncTx
	runSyncErr   error
	listFn       func(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error)
	createFn     func(ctx context.Context, entry *models.LogbookEntry) error
	softDeleteFn func(ctx context.Context, entryID, userID string) error
	runSyncCalls int
}

func (m *mockLogbookStorage) List(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, page, limit)
	}
	return nil, nil
}

func (m *mockLogbookStorage) Create(ctx context.Context, entry *models.LogbookEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockLogbookStorage) SoftDelete(ctx context.Context, entryID, userID string) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, entryID, userID)
	}
	return nil
}

// RunSync mimics the real transaction scope: fn runs against the mock tx and
// any error from fn aborts the exchange.
func (m *mockLogbookStorage) RunSync(ctx context.Context, fn func(tx store.SyncTx) error) error {
	m.runSyncCalls++
	if m.runSyncErr != nil {
		return m.runSyncErr
	}
	tx := m.tx
	if tx == nil {
		tx = &mockSyncTx{}
	}
	return fn(tx)
}

// seqIDGenerator mints predictable ids ("srv-1", "srv-2", …) so tests can
// assert on server-assigned identifiers.
type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("srv-%d", g.n)
}

func newTestSyncService(storage *mockLogbookStorage) SyncService {
	return NewSyncService(storage, &seqIDGenerator{}, logger.Nop())
}

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Sync
// ─────────────────────────────────────────────

func TestSyncService_Sync_InsertsNewEntries(t *testing.T) {
	checkpoint := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var inserted []models.LogbookEntry
	tx := &mockSyncTx{
		checkpointFn: func(_ context.Context) (time.Time, error) {
			return checkpoint, nil
		},
		insertFn: func(_ context.Context, entry *models.LogbookEntry) error {
			entry.Version = 1
			inserted = append(inserted, *entry)
			return nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{
			{LocalID: 10, ActivityType: "sowing", Date: "2026-03-10", Cost: 1200},
			{LocalID: 11, ActivityType: "harvest", Date: "2026-03-12", Income: 900},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, checkpoint, result.NewCheckpoint)

	require.Len(t, inserted, 2)
	assert.Equal(t, "srv-1", inserted[0].ID)
	assert.Equal(t, "user-1", inserted[0].UserID)
	assert.Equal(t, "sowing", inserted[0].ActivityType)
	assert.Equal(t, "srv-2", inserted[1].ID)

	require.Len(t, result.Processed, 2)
	assert.Equal(t, models.ProcessedChange{
		LocalID: 10, BackendID: "srv-1", Status: models.ChangeStatusSynced, Version: 1,
	}, result.Processed[0])
	assert.Equal(t, models.ProcessedChange{
		LocalID: 11, BackendID: "srv-2", Status: models.ChangeStatusSynced, Version: 1,
	}, result.Processed[1])
}

func TestSyncService_Sync_OverwritesExistingEntries(t *testing.T) {
	var overwritten []models.ClientChange
	tx := &mockSyncTx{
		overwriteFn: func(_ context.Context, userID string, change models.ClientChange) (int64, error) {
			assert.Equal(t, "user-1", userID)
			overwritten = append(overwritten, change)
			return 5, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{
			{ID: "e-1", LocalID: 7, ActivityType: "weeding", Date: "2026-03-11", Version: 99},
		},
	})

	require.NoError(t, err)
	require.Len(t, overwritten, 1)
	assert.Equal(t, "e-1", overwritten[0].ID)

	require.Len(t, result.Processed, 1)
	assert.Equal(t, models.ProcessedChange{
		LocalID: 7, BackendID: "e-1", Status: models.ChangeStatusSynced, Version: 5,
	}, result.Processed[0])
}

func TestSyncService_Sync_AppliesChangesInSubmissionOrder(t *testing.T) {
	var order []string
	tx := &mockSyncTx{
		insertFn: func(_ context.Context, entry *models.LogbookEntry) error {
			entry.Version = 1
			order = append(order, "insert")
			return nil
		},
		overwriteFn: func(_ context.Context, _ string, change models.ClientChange) (int64, error) {
			order = append(order, "overwrite:"+change.ID)
			return 2, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	_, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{
			{ID: "e-2"},
			{},
			{ID: "e-1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"overwrite:e-2", "insert", "overwrite:e-1"}, order)
}

func TestSyncService_Sync_UnknownEntryYieldsPerItemError(t *testing.T) {
	tx := &mockSyncTx{
		overwriteFn: func(_ context.Context, _ string, change models.ClientChange) (int64, error) {
			if change.ID == "e-ghost" {
				return 0, store.ErrEntryNotFound
			}
			return 3, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{
			{ID: "e-ghost", LocalID: 1},
			{ID: "e-live", LocalID: 2},
		},
	})

	// A missing record is a per-item outcome, not an exchange failure.
	require.NoError(t, err)
	require.Len(t, result.Processed, 2)

	assert.Equal(t, models.ProcessedChange{
		LocalID: 1, BackendID: "e-ghost", Status: models.ChangeStatusError, Error: "Record not found",
	}, result.Processed[0])
	assert.Equal(t, models.ProcessedChange{
		LocalID: 2, BackendID: "e-live", Status: models.ChangeStatusSynced, Version: 3,
	}, result.Processed[1])
}

func TestSyncService_Sync_DeltaExcludesBatchTouchedIDs(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var gotSince *time.Time
	var gotExcluded []string
	tx := &mockSyncTx{
		overwriteFn: func(_ context.Context, _ string, _ models.ClientChange) (int64, error) {
			return 2, nil
		},
		insertFn: func(_ context.Context, entry *models.LogbookEntry) error {
			entry.Version = 1
			return nil
		},
		deltaFn: func(_ context.Context, userID string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error) {
			gotSince = since
			gotExcluded = excludeIDs
			return []models.LogbookEntry{{ID: "e-other"}}, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		LastSyncTimestamp: &since,
		Changes: []models.ClientChange{
			{ID: "e-1"}, // updated
			{},          // new → srv-1
			{ID: "e-1"}, // updated again, must not duplicate in exclusions
		},
	})

	require.NoError(t, err)
	require.NotNil(t, gotSince)
	assert.Equal(t, since, *gotSince)
	assert.Equal(t, []string{"e-1", "srv-1"}, gotExcluded)

	require.Len(t, result.ServerChanges, 1)
	assert.Equal(t, "e-other", result.ServerChanges[0].ID)
}

func TestSyncService_Sync_FirstSyncPassesNilCheckpoint(t *testing.T) {
	var deltaCalled bool
	tx := &mockSyncTx{
		deltaFn: func(_ context.Context, _ string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error) {
			deltaCalled = true
			assert.Nil(t, since)
			assert.Empty(t, excludeIDs)
			return []models.LogbookEntry{{ID: "e-1"}, {ID: "e-2"}}, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{})

	require.NoError(t, err)
	assert.True(t, deltaCalled)
	assert.Len(t, result.ServerChanges, 2)
	assert.Empty(t, result.Processed)
}

func TestSyncService_Sync_InfrastructureErrorAbortsExchange(t *testing.T) {
	tx := &mockSyncTx{
		overwriteFn: func(_ context.Context, _ string, _ models.ClientChange) (int64, error) {
			return 0, errStorage
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{{ID: "e-1"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.Zero(t, result)
}

func TestSyncService_Sync_CheckpointErrorAbortsExchange(t *testing.T) {
	tx := &mockSyncTx{
		checkpointFn: func(_ context.Context) (time.Time, error) {
			return time.Time{}, errStorage
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	_, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
}

func TestSyncService_Sync_EmptyUserID(t *testing.T) {
	storage := &mockLogbookStorage{}
	svc := newTestSyncService(storage)

	_, err := svc.Sync(context.Background(), "", models.SyncRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Zero(t, storage.runSyncCalls, "storage must not be touched without an owner")
}

func TestSyncService_Sync_ClientVersionIsIgnored(t *testing.T) {
	tx := &mockSyncTx{
		overwriteFn: func(_ context.Context, _ string, change models.ClientChange) (int64, error) {
			// Server-side counter wins regardless of what the client claims.
			assert.Equal(t, int64(999), change.Version)
			return 4, nil
		},
	}
	storage := &mockLogbookStorage{tx: tx}
	svc := newTestSyncService(storage)

	result, err := svc.Sync(context.Background(), "user-1", models.SyncRequest{
		Changes: []models.ClientChange{{ID: "e-1", Version: 999}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Processed[0].Version)
}

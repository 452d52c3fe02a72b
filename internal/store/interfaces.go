package store

import (
	"context"
	"time"

	"github.com/kheti-sahayak/logbook-sync/models"
)

// LogbookStorage is the persistence capability for logbook entries.
//
// Plain CRUD methods run on the shared connection pool. RunSync provides a
// transactional scope for one sync exchange; it is the only way to obtain a
// [SyncTx], which keeps all sync statements on a single transaction.
type LogbookStorage interface {
	// List returns the live (non-tombstoned) entries of the given owner,
	// ordered by date and creation time descending, windowed by page/limit.
	List(ctx context.Context, userID string, page, limit int) ([]models.LogbookEntry, error)

	// Create inserts a new entry with version 1. The entry's ID must be set
	// by the caller; Version, CreatedAt, and LastModified are populated from
	// the inserted row.
	Create(ctx context.Context, entry *models.LogbookEntry) error

	// SoftDelete tombstones a live entry and bumps its version. Returns
	// [ErrEntryNotFound] if no live entry matches (id, userID).
	SoftDelete(ctx context.Context, entryID, userID string) error

	// RunSync opens a transaction, invokes fn with a [SyncTx] bound to it,
	// and commits if fn returns nil. Any error from fn rolls the whole
	// transaction back — no partial state is committed.
	RunSync(ctx context.Context, fn func(tx SyncTx) error) error
}

// SyncTx is the set of statements available inside one sync transaction.
type SyncTx interface {
	// Checkpoint returns the database clock reading for this transaction.
	// It is captured once, before any writes, and handed back to the client
	// as the checkpoint for its next sync call.
	Checkpoint(ctx context.Context) (time.Time, error)

	// InsertEntry mints a new entry with version 1, populating Version,
	// CreatedAt, and LastModified from the inserted row.
	InsertEntry(ctx context.Context, entry *models.LogbookEntry) error

	// OverwriteEntry unconditionally replaces all mutable fields of the
	// entry identified by (change.ID, userID), bumps its version by 1, and
	// stamps last_modified. Returns the new version, or [ErrEntryNotFound]
	// if the entry does not exist under the caller's ownership.
	OverwriteEntry(ctx context.Context, userID string, change models.ClientChange) (int64, error)

	// Delta returns every entry of the owner whose last_modified is strictly
	// greater than since (or every entry when since is nil), excluding the
	// given ids, ordered by (last_modified, id) ascending. Tombstoned
	// entries are included so deletions propagate to other devices.
	Delta(ctx context.Context, userID string, since *time.Time, excludeIDs []string) ([]models.LogbookEntry, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implemented by [PostgresErrorClassifier].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

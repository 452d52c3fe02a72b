package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
)

const (
	insertLogbookEntry = `INSERT INTO logbook (id, user_id, activity_type, date, description, cost, income, version, created_at, last_modified)
    VALUES ($1, $2, $3, $4, $5, $6, $7, 1, now(), now())
    RETURNING version, created_at, last_modified;`

	overwriteLogbookEntry = `UPDATE logbook
    SET activity_type = $1,
        date = $2,
        description = $3,
        cost = $4,
        income = $5,
        deleted = $6,
        version = version + 1,
        last_modified = now()
    WHERE id = $7 AND user_id = $8
    RETURNING version;`

	softDeleteLogbookEntry = `UPDATE logbook
    SET deleted = true,
        version = version + 1,
        last_modified = now()
    WHERE id = $1 AND user_id = $2 AND deleted = false
    RETURNING id;`

	selectCheckpoint = `SELECT now();`
)

// logbookColumns is the canonical column order used by every SELECT against
// the logbook table. Scan destinations in the repository follow this order.
var logbookColumns = []string{
	"id",
	"user_id",
	"activity_type",
	"date",
	"description",
	"cost",
	"income",
	"deleted",
	"version",
	"created_at",
	"last_modified",
}

// buildDeltaQuery constructs the server-delta SELECT for one sync exchange.
//
// The query always filters by owner. When since is non-nil only entries with
// last_modified strictly after the checkpoint are matched; a nil since means
// first sync and matches the owner's full history, tombstones included.
// Ids in excludeIDs — the records the current batch just touched — are
// filtered out so the client does not receive echoes of its own writes.
//
// Ordering is (last_modified, id) ascending, giving clients a deterministic
// replay order for the returned changes.
func buildDeltaQuery(ctx context.Context, userID string, since *time.Time, excludeIDs []string) (string, []any, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(logbookColumns...).
		From("logbook").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar)

	if since != nil {
		builder = builder.Where(sq.Gt{"last_modified": *since})
	}

	if len(excludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeIDs})
	}

	builder = builder.OrderBy("last_modified ASC", "id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "buildDeltaQuery").
			Str("user_id", userID).
			Msg("failed to build delta query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListQuery constructs the paginated listing SELECT for live entries.
//
// Tombstoned records are excluded: listing serves the regular CRUD surface,
// where deleted entries must be invisible. Ordering matches the mobile app's
// feed: newest activity date first, ties broken by creation time.
func buildListQuery(ctx context.Context, userID string, page, limit int) (string, []any, error) {
	log := logger.FromContext(ctx)

	offset := (page - 1) * limit

	builder := sq.Select(logbookColumns...).
		From("logbook").
		Where(sq.Eq{"user_id": userID, "deleted": false}).
		OrderBy("date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "buildListQuery").
			Str("user_id", userID).
			Msg("failed to build list query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

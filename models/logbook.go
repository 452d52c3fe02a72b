package models

import "time"

// LogbookEntry is the server-authoritative record of a single farm activity:
// an expense, an income, or a plain activity note.
//
// Entries are never physically removed. Deletion only flips the Deleted
// tombstone flag so that other devices of the same owner can observe the
// deletion on a later delta query.
type LogbookEntry struct {
	// ID is the server-issued unique identifier, assigned at first insert
	// and immutable thereafter.
	ID string `json:"id"`

	// UserID identifies the owner of the entry. It never changes and scopes
	// every read and write touching the record.
	UserID string `json:"user_id"`

	// ActivityType describes the kind of farm event (e.g. "sowing",
	// "harvest", "fertilizer").
	ActivityType string `json:"activity_type"`

	// Date is the client-supplied date of the activity. The value is kept
	// opaque; the server never interprets or reformats it.
	Date string `json:"date"`

	// Description is a free-form note attached to the activity.
	Description string `json:"description"`

	// Cost is the expense amount associated with the activity. Defaults to 0.
	Cost float64 `json:"cost"`

	// Income is the income amount associated with the activity. Defaults to 0.
	Income float64 `json:"income"`

	// Deleted is the soft-delete tombstone flag.
	Deleted bool `json:"deleted"`

	// Version increases by exactly 1 on every successful server-side
	// mutation of the record. It is never set by the client.
	Version int64 `json:"version"`

	// CreatedAt is the timestamp of the first insert.
	CreatedAt time.Time `json:"created_at"`

	// LastModified is the timestamp of the most recent successful mutation.
	// It is the sole basis for delta computation.
	LastModified time.Time `json:"last_modified"`
}

// TableName returns the name of the database table
// associated with the LogbookEntry model.
func (e LogbookEntry) TableName() string {
	return "logbook"
}

// CreateEntryRequest is the payload accepted by the logbook create endpoint.
type CreateEntryRequest struct {
	ActivityType string  `json:"activity_type" validate:"required,max=100"`
	Date         string  `json:"date" validate:"required"`
	Description  string  `json:"description"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	Income       float64 `json:"income" validate:"gte=0"`
}

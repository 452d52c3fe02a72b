// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Statuses reported per processed client change.
const (
	ChangeStatusSynced = "synced"
	ChangeStatusError  = "error"
)

// ClientChange is one client-submitted mutation of a logbook entry.
// It is request-scoped and never persisted server-side.
type ClientChange struct {
	// ID is the server identifier, present only if the entry was previously
	// synced. When empty, the change mints a new entry.
	ID string `json:"id,omitempty"`

	// LocalID is the client-only temporary identifier. It is meaningful only
	// for correlating the response back to the client's local database.
	LocalID int64 `json:"local_id"`

	ActivityType string  `json:"activity_type"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Cost         float64 `json:"cost"`
	Income       float64 `json:"income"`

	// Deleted marks the change as a soft delete of the referenced entry.
	Deleted bool `json:"deleted"`

	// Version is the client's last-known version of the entry. The current
	// conflict policy is unconditional last-write-wins, so the value is
	// accepted but not compared against the server version.
	Version int64 `json:"version,omitempty"`
}

// SyncRequest is the body of one sync exchange submitted by a device.
type SyncRequest struct {
	// LastSyncTimestamp is the checkpoint returned by the previous exchange.
	// Absent on the very first sync of a device, in which case the server
	// returns every entry it holds for the owner.
	LastSyncTimestamp *time.Time `json:"last_sync_timestamp,omitempty"`

	// Changes are applied strictly in the order supplied.
	Changes []ClientChange `json:"changes"`
}

// ProcessedChange reports the per-item outcome of applying one ClientChange.
type ProcessedChange struct {
	LocalID   int64  `json:"local_id"`
	BackendID string `json:"backend_id,omitempty"`
	Status    string `json:"status"`
	Version   int64  `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SyncResult is the outcome of one successful sync exchange as produced by
// the sync service, before it is wrapped into the transport response.
type SyncResult struct {
	// NewCheckpoint is the checkpoint the device must present on its next
	// sync call. It is captured once, at the start of the exchange, from the
	// database clock.
	NewCheckpoint time.Time

	// ServerChanges are the entries the device does not yet know about,
	// ordered by (last_modified, id) ascending.
	ServerChanges []LogbookEntry

	// Processed holds one entry per submitted ClientChange, in submission order.
	Processed []ProcessedChange
}

// SyncResponse is the wire shape of a successful sync exchange.
type SyncResponse struct {
	Success          bool              `json:"success"`
	NewSyncTimestamp time.Time         `json:"new_sync_timestamp"`
	ServerChanges    []LogbookEntry    `json:"server_changes"`
	ProcessedChanges []ProcessedChange `json:"processed_changes"`
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/utils"
	"github.com/kheti-sahayak/logbook-sync/models"
)

// syncLogbook serves one full sync exchange for the authenticated owner.
//
// The request body carries the device's checkpoint and its batch of offline
// changes; the response carries the per-change outcomes, the server-side
// delta, and the checkpoint for the next exchange. A failed exchange returns
// a generic failure body — internals never leak to clients — and commits
// nothing, so the device may resubmit the identical batch.
func (h *Handler) syncLogbook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncLogbook").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var syncRequest models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.syncLogbook").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncService.Sync(ctx, userID, syncRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncLogbook").Msg("sync exchange failed")
		utils.WriteJSON(w, models.MessageResponse{
			Success: false,
			Message: "Sync failed",
		}, statusFromError(err))
		return
	}

	response := models.SyncResponse{
		Success:          true,
		NewSyncTimestamp: result.NewCheckpoint,
		ServerChanges:    result.ServerChanges,
		ProcessedChanges: result.Processed,
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

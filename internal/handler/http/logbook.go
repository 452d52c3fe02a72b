package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kheti-sahayak/logbook-sync/internal/logger"
	"github.com/kheti-sahayak/logbook-sync/internal/utils"
	"github.com/kheti-sahayak/logbook-sync/models"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listEntries").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	page := queryParamInt(r, "page", 1)
	limit := queryParamInt(r, "limit", 20)

	entries, err := h.services.LogbookService.List(ctx, userID, page, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntries").Msg("error listing logbook entries")
		http.Error(w, "error listing logbook entries", statusFromError(err))
		return
	}

	response := models.EntriesResponse{
		Success: true,
		Data:    entries,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
		},
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.createEntry").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var createRequest models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		log.Err(err).Str("func", "*Handler.createEntry").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(createRequest); err != nil {
		log.Err(err).Str("func", "*Handler.createEntry").Msg("invalid logbook entry data")
		http.Error(w, "invalid logbook entry data", http.StatusBadRequest)
		return
	}

	entry, err := h.services.LogbookService.Create(ctx, userID, createRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createEntry").Msg("error creating logbook entry")
		http.Error(w, "error creating logbook entry", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.EntryResponse{Success: true, Data: entry}, http.StatusCreated)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteEntry").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	entryID := chi.URLParam(r, "id")

	if err := h.services.LogbookService.Delete(ctx, entryID, userID); err != nil {
		log.Err(err).
			Str("func", "*Handler.deleteEntry").
			Str("entry_id", entryID).
			Msg("error deleting logbook entry")
		http.Error(w, "error deleting logbook entry", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.MessageResponse{
		Success: true,
		Message: "Logbook entry deleted successfully",
	}, http.StatusOK)
}

// queryParamInt reads an integer query parameter, falling back to def when
// the parameter is absent or not a number.
func queryParamInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return value
}

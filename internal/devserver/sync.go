package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// The Idempotency-Key header wins over the body: a proxy retry may
	// resend the body with a fresh key, but never the other way round.
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		req.MutationID = key
	}

	if req.MutationID == "" || req.EntityID == "" {
		log.Error().Msg("push without mutation or entity id")
		http.Error(w, "mutation_id and entity_id are required", http.StatusBadRequest)
		return
	}
	if !models.IsKnownEntityType(req.EntityType) {
		log.Error().Str("entity_type", string(req.EntityType)).Msg("unknown entity type")
		http.Error(w, "unknown entity type", http.StatusBadRequest)
		return
	}
	if !req.Operation.Valid() {
		log.Error().Str("operation", string(req.Operation)).Msg("unknown operation")
		http.Error(w, "unknown operation", http.StatusBadRequest)
		return
	}

	result := h.store.Apply(req)

	status := http.StatusOK
	if result.Conflict {
		status = http.StatusConflict
		log.Debug().
			Str("mutation_id", req.MutationID).
			Str("entity_id", req.EntityID).
			Int64("server_version", result.ServerVersion).
			Msg("push rejected with conflict")
	}

	writeJSON(w, status, result, log)
}

func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	entityType := models.EntityType(r.URL.Query().Get("entity_type"))
	if !models.IsKnownEntityType(entityType) {
		log.Error().Str("entity_type", string(entityType)).Msg("unknown entity type")
		http.Error(w, "unknown entity type", http.StatusBadRequest)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Err(err).Msg("invalid since parameter")
			http.Error(w, "since must be RFC 3339", http.StatusBadRequest)
			return
		}
		since = &parsed
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page := h.store.List(entityType, since, r.URL.Query().Get("cursor"), limit)

	writeJSON(w, http.StatusOK, page, log)
}

func writeJSON(w http.ResponseWriter, status int, body any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("error encoding response body")
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/graph"
	"github.com/releasarr/releasarr/internal/models"
	"github.com/releasarr/releasarr/internal/repositories"
)

// EventsHandler receives event callbacks from the download consumer and
// the ingestion pipeline and fans them out to GraphQL subscribers.
type EventsHandler struct {
	resolver *graph.Resolver
	repo     *repositories.GamesRepository
	logger   *logrus.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(resolver *graph.Resolver, repo *repositories.GamesRepository, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{
		resolver: resolver,
		repo:     repo,
		logger:   logger,
	}
}

// DownloadProgressPayload is the progress callback body.
type DownloadProgressPayload struct {
	GameID string `json:"game_id"`
	models.DownloadProgressMessage
}

// NewReleasePayload is the new-release callback body.
type NewReleasePayload struct {
	GUID string `json:"guid"`
}

// HandleDownloadProgress handles POST /api/events/download-progress
func (h *EventsHandler) HandleDownloadProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload DownloadProgressPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.WithError(err).Error("Failed to decode progress payload")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if payload.GameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}

	h.resolver.PublishDownloadProgress(payload.GameID, payload.DownloadProgressMessage)

	h.logger.WithFields(logrus.Fields{
		"game_id":  payload.GameID,
		"progress": payload.Progress,
		"state":    payload.State,
	}).Debug("Download progress event published")

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleNewRelease handles POST /api/events/new-release
func (h *EventsHandler) HandleNewRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload NewReleasePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.WithError(err).Error("Failed to decode release payload")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if payload.GUID == "" {
		http.Error(w, "guid is required", http.StatusBadRequest)
		return
	}

	game, err := h.repo.FindByGUID(r.Context(), payload.GUID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load released game")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if game == nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	h.resolver.PublishNewRelease(game)

	h.logger.WithField("guid", payload.GUID).Info("New release event published")

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

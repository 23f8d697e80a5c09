package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/models"
	"github.com/releasarr/releasarr/internal/repositories"
)

// StatusHandler handles status requests
type StatusHandler struct {
	repo   *repositories.GamesRepository
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(repo *repositories.GamesRepository, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		repo:   repo,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalGames  int64 `json:"total_games"`
	Available   int64 `json:"available"`
	Downloading int64 `json:"downloading"`
	Completed   int64 `json:"completed"`
	Unavailable int64 `json:"unavailable"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, total, err := h.repo.CountByStatus(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to count games")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalGames:  total,
		Available:   counts[models.StatusAvailable],
		Downloading: counts[models.StatusDownloading],
		Completed:   counts[models.StatusCompleted],
		Unavailable: counts[models.StatusUnavailable],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/broker"
	"github.com/releasarr/releasarr/internal/models"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *models.Database
	broker *broker.Broker
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *models.Database, b *broker.Broker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		broker: b,
		logger: logger,
	}
}

// HealthResponse reports per-dependency health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Broker   string `json:"broker"`
}

// ServeHTTP handles the health check endpoint. Any unhealthy dependency
// turns the response into a 503 so orchestrators restart or reroute.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:   "healthy",
		Database: "up",
		Broker:   "up",
	}
	code := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Error("Database ping failed")
		response.Status = "unhealthy"
		response.Database = "down"
		code = http.StatusServiceUnavailable
	}
	if !h.broker.IsConnected() {
		response.Status = "unhealthy"
		response.Broker = "down"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

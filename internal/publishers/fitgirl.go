package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/broker"
	"github.com/releasarr/releasarr/internal/metrics"
)

// ResetMessage instructs the ingestion pipeline to clear its state and
// re-fetch from the source feed. Reason is omitted from the payload
// entirely when not supplied.
type ResetMessage struct {
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
	Target    string  `json:"target"`
	Reason    *string `json:"reason,omitempty"`
}

// SteamRefreshMessage asks the enricher to re-resolve a game's Steam
// metadata under the given name.
type SteamRefreshMessage struct {
	GameID        int64  `json:"gameId"`
	CorrectedName string `json:"correctedName"`
	Timestamp     string `json:"timestamp"`
}

// FitGirlPublisher emits administrative commands to the pipeline-control
// stream.
type FitGirlPublisher struct {
	publisher Publisher
	logger    *logrus.Logger
}

// NewFitGirlPublisher creates a pipeline-control publisher.
func NewFitGirlPublisher(publisher Publisher, logger *logrus.Logger) *FitGirlPublisher {
	return &FitGirlPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// ResetPipeline publishes a full pipeline reset command.
func (p *FitGirlPublisher) ResetPipeline(ctx context.Context, source string, reason *string) error {
	message := ResetMessage{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Target:    "all",
		Reason:    reason,
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode reset command: %w", err)
	}

	if err := p.publisher.Publish(ctx, broker.SubjectReset, data); err != nil {
		return err
	}

	metrics.PublishedMessages.WithLabelValues(broker.SubjectReset).Inc()
	p.logger.WithField("source", source).Info("Pipeline reset published")
	return nil
}

// RefreshSteam publishes a steam-refresh command for one game.
func (p *FitGirlPublisher) RefreshSteam(ctx context.Context, gameID int64, correctedName string) error {
	message := SteamRefreshMessage{
		GameID:        gameID,
		CorrectedName: correctedName,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode steam refresh command: %w", err)
	}

	if err := p.publisher.Publish(ctx, broker.SubjectSteamRefresh, data); err != nil {
		return err
	}

	metrics.PublishedMessages.WithLabelValues(broker.SubjectSteamRefresh).Inc()
	p.logger.WithFields(logrus.Fields{
		"game_id": gameID,
		"name":    correctedName,
	}).Info("Steam refresh published")
	return nil
}

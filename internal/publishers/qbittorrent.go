package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/broker"
	"github.com/releasarr/releasarr/internal/metrics"
)

// AddDownloadMessage asks the download consumer to start a torrent.
type AddDownloadMessage struct {
	ID         string `json:"id"`
	MagnetLink string `json:"magnetLink"`
	Category   string `json:"category"`
}

// QbittorrentPublisher emits download requests to the qbittorrent stream.
type QbittorrentPublisher struct {
	publisher Publisher
	logger    *logrus.Logger
}

// NewQbittorrentPublisher creates a download-request publisher.
func NewQbittorrentPublisher(publisher Publisher, logger *logrus.Logger) *QbittorrentPublisher {
	return &QbittorrentPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// AddDownload publishes a download request for the game identified by
// its guid.
func (p *QbittorrentPublisher) AddDownload(ctx context.Context, id, magnetLink string) error {
	message := AddDownloadMessage{
		ID:         id,
		MagnetLink: magnetLink,
		Category:   "games",
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode download request: %w", err)
	}

	if err := p.publisher.Publish(ctx, broker.SubjectAddDownload, data); err != nil {
		return err
	}

	metrics.PublishedMessages.WithLabelValues(broker.SubjectAddDownload).Inc()
	p.logger.WithField("id", id).Info("Download request published")
	return nil
}

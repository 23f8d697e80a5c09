// Package monitor watches the games table for downloads that started
// but never completed.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/repositories"
)

// Monitor periodically reports downloads stuck past the configured
// timeout. The consumer owns retries; this only surfaces the condition.
type Monitor struct {
	cron                   *cron.Cron
	repo                   *repositories.GamesRepository
	logger                 *logrus.Logger
	downloadTimeoutMinutes int
}

// NewMonitor creates a stuck-download monitor.
func NewMonitor(repo *repositories.GamesRepository, downloadTimeoutMinutes int, logger *logrus.Logger) *Monitor {
	return &Monitor{
		cron:                   cron.New(),
		repo:                   repo,
		logger:                 logger,
		downloadTimeoutMinutes: downloadTimeoutMinutes,
	}
}

// Start schedules the periodic check.
func (m *Monitor) Start() error {
	_, err := m.cron.AddFunc("*/10 * * * *", func() {
		m.runStuckDownloadCheck()
	})
	if err != nil {
		return fmt.Errorf("failed to add stuck download check job: %w", err)
	}

	m.cron.Start()
	m.logger.Info("Download monitor started")
	return nil
}

// Stop stops the monitor.
func (m *Monitor) Stop() {
	m.logger.Info("Stopping download monitor")
	m.cron.Stop()
}

// runStuckDownloadCheck executes the stuck download check job
func (m *Monitor) runStuckDownloadCheck() {
	m.logger.Debug("Running stuck download check")
	ctx := context.Background()

	games, err := m.repo.FindActiveDownloads(ctx)
	if err != nil {
		m.logger.WithError(err).Error("Stuck download check failed")
		return
	}

	timeout := time.Duration(m.downloadTimeoutMinutes) * time.Minute
	cutoff := time.Now().Add(-timeout)

	for _, game := range games {
		if game.DownloadStartedAt == nil || game.DownloadStartedAt.After(cutoff) {
			continue
		}
		m.logger.WithFields(logrus.Fields{
			"guid":       game.GUID,
			"game_name":  game.GameName,
			"started_at": game.DownloadStartedAt.Format(time.RFC3339),
		}).Warn("Download appears stuck")
	}
}

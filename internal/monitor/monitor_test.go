package monitor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/releasarr/releasarr/internal/models"
	"github.com/releasarr/releasarr/internal/repositories"
)

func newTestMonitor(t *testing.T, timeoutMinutes int) (*Monitor, *gorm.DB, *logrustest.Hook) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Game{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	repo := repositories.NewGamesRepository(db, logger)
	return NewMonitor(repo, timeoutMinutes, logger), db, hook
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestStuckDownloadCheckWarnsPastTimeout(t *testing.T) {
	mon, db, hook := newTestMonitor(t, 30)
	now := time.Now().UTC()
	magnet := "magnet:?xt=urn:btih:abc"

	stuck := &models.Game{
		GUID:              "g-stuck",
		GameName:          "Stuck Game",
		TitleRaw:          "Stuck Game [FitGirl Repack]",
		PubDate:           now,
		MagnetLink:        &magnet,
		DownloadStartedAt: timePtr(now.Add(-2 * time.Hour)),
	}
	fresh := &models.Game{
		GUID:              "g-fresh",
		GameName:          "Fresh Game",
		TitleRaw:          "Fresh Game [FitGirl Repack]",
		PubDate:           now,
		MagnetLink:        &magnet,
		DownloadStartedAt: timePtr(now.Add(-5 * time.Minute)),
	}
	for _, g := range []*models.Game{stuck, fresh} {
		if err := db.Create(g).Error; err != nil {
			t.Fatalf("failed to seed game: %v", err)
		}
	}

	mon.runStuckDownloadCheck()

	var warned []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			if guid, ok := entry.Data["guid"].(string); ok {
				warned = append(warned, guid)
			}
		}
	}
	if len(warned) != 1 || warned[0] != "g-stuck" {
		t.Errorf("warned guids = %v, want [g-stuck]", warned)
	}
}

func TestStuckDownloadCheckQuietWhenNothingActive(t *testing.T) {
	mon, db, hook := newTestMonitor(t, 30)
	now := time.Now().UTC()
	magnet := "magnet:?xt=urn:btih:abc"

	done := &models.Game{
		GUID:                "g-done",
		GameName:            "Done Game",
		TitleRaw:            "Done Game [FitGirl Repack]",
		PubDate:             now,
		MagnetLink:          &magnet,
		DownloadStartedAt:   timePtr(now.Add(-3 * time.Hour)),
		DownloadCompletedAt: timePtr(now.Add(-2 * time.Hour)),
	}
	if err := db.Create(done).Error; err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}

	mon.runStuckDownloadCheck()

	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			t.Errorf("unexpected warning: %s", entry.Message)
		}
	}
}

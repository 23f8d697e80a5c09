// Package repositories translates filter and pagination parameters into
// bounded, deterministic queries over the games table.
package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apperrors "github.com/releasarr/releasarr/internal/errors"
	"github.com/releasarr/releasarr/internal/models"
)

const (
	defaultOffset = 0
	defaultLimit  = 20
)

// GamesRepository performs all reads and the three writes the API layer
// needs. It holds no mutable state; the gorm pool makes it safe for
// concurrent use.
type GamesRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewGamesRepository creates a games repository over an open pool.
func NewGamesRepository(db *gorm.DB, logger *logrus.Logger) *GamesRepository {
	return &GamesRepository{
		db:     db,
		logger: logger,
	}
}

// FindAll returns a page of games matching the filter, newest first.
func (r *GamesRepository) FindAll(ctx context.Context, filter *models.GameFilter, page *models.Pagination) (*models.GamesConnection, error) {
	offset := defaultOffset
	limit := defaultLimit
	if page != nil {
		if page.Offset > 0 {
			offset = page.Offset
		}
		if page.Limit > 0 {
			limit = page.Limit
		}
	}

	// Count and fetch build their predicates independently so neither
	// inherits the other's finisher state.
	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Game{})
		if filter != nil && filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where(
				"LOWER(game_name) LIKE ? OR LOWER(title_raw) LIKE ? OR LOWER(steam_name) LIKE ? OR LOWER(corrected_name) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
		if filter != nil && filter.DownloadStatus != nil {
			q = q.Where(downloadStatusCondition(*filter.DownloadStatus))
		}
		return q
	}

	var totalCount int64
	if err := build().Count(&totalCount).Error; err != nil {
		return nil, apperrors.NewDatabaseError("findAll count", err, "")
	}

	var items []models.Game
	err := build().
		Order("pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("findAll", err, "")
	}

	return &models.GamesConnection{
		Items:      items,
		TotalCount: int(totalCount),
		HasMore:    offset+len(items) < int(totalCount),
	}, nil
}

// FindByID returns the game with the given id, or nil when absent.
func (r *GamesRepository) FindByID(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("findById", err, "")
	}
	return &game, nil
}

// FindByGUID returns the game with the given guid, or nil when absent.
func (r *GamesRepository) FindByGUID(ctx context.Context, guid string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).First(&game, "guid = ?", guid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("findByGuid", err, "")
	}
	return &game, nil
}

// FindActiveDownloads returns games with a started but not completed
// download, most recently started first.
func (r *GamesRepository) FindActiveDownloads(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).
		Where("download_started_at IS NOT NULL AND download_completed_at IS NULL").
		Order("download_started_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("findActiveDownloads", err, "")
	}
	return games, nil
}

// FindRecent returns the newest games by publication date.
func (r *GamesRepository) FindRecent(ctx context.Context, limit int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).
		Order("pub_date DESC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("findRecent", err, "")
	}
	return games, nil
}

// UpdateRating sets or clears the rating and returns the post-update
// row, or nil when no row matched.
func (r *GamesRepository) UpdateRating(ctx context.Context, id int64, rating *models.Rating) (*models.Game, error) {
	updates := map[string]interface{}{
		"rating":     nil,
		"updated_at": time.Now().UTC(),
	}
	if rating != nil {
		updates["rating"] = string(*rating)
	}

	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, apperrors.NewDatabaseError("updateRating", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"rating": rating,
	}).Debug("Rating updated")

	return r.FindByID(ctx, id)
}

// UpdateCorrectedName sets the user-supplied name override and returns
// the post-update row, or nil when no row matched.
func (r *GamesRepository) UpdateCorrectedName(ctx context.Context, id int64, correctedName string) (*models.Game, error) {
	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(map[string]interface{}{
		"corrected_name": correctedName,
		"updated_at":     time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, apperrors.NewDatabaseError("updateCorrectedName", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.logger.WithFields(logrus.Fields{
		"id":             id,
		"corrected_name": correctedName,
	}).Debug("Corrected name updated")

	return r.FindByID(ctx, id)
}

// UpdateDownloadStarted marks the download as started now. An unknown
// guid is a silent no-op: the caller just fetched the row, and the
// download trigger is fire-and-forget.
func (r *GamesRepository) UpdateDownloadStarted(ctx context.Context, guid string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("guid = ?", guid).Updates(map[string]interface{}{
		"download_started_at": now,
		"updated_at":          now,
	})
	if res.Error != nil {
		return apperrors.NewDatabaseError("updateDownloadStarted", res.Error, "")
	}

	r.logger.WithFields(logrus.Fields{
		"guid":          guid,
		"rows_affected": res.RowsAffected,
	}).Debug("Download started")

	return nil
}

// CountByStatus returns how many games currently match each download
// status filter, plus the total row count.
func (r *GamesRepository) CountByStatus(ctx context.Context) (map[models.DownloadStatus]int64, int64, error) {
	counts := make(map[models.DownloadStatus]int64, 4)
	for _, status := range []models.DownloadStatus{
		models.StatusAvailable,
		models.StatusDownloading,
		models.StatusCompleted,
		models.StatusUnavailable,
	} {
		var n int64
		err := r.db.WithContext(ctx).Model(&models.Game{}).
			Where(downloadStatusCondition(status)).
			Count(&n).Error
		if err != nil {
			return nil, 0, apperrors.NewDatabaseError("countByStatus", err, "")
		}
		counts[status] = n
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Game{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("countByStatus total", err, "")
	}
	return counts, total, nil
}

// downloadStatusCondition returns the predicate for a status filter.
// AVAILABLE is deliberately stricter than the derivation rule: a row
// with a magnet link and a started download must not match.
func downloadStatusCondition(status models.DownloadStatus) string {
	switch status {
	case models.StatusAvailable:
		return "magnet_link IS NOT NULL AND download_started_at IS NULL"
	case models.StatusDownloading:
		return "download_started_at IS NOT NULL AND download_completed_at IS NULL"
	case models.StatusCompleted:
		return "download_completed_at IS NOT NULL"
	default:
		return "magnet_link IS NULL"
	}
}

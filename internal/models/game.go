package models

import "time"

// Game represents a scraped game release enriched with Steam metadata.
// The row is created by the ingestion pipeline; this service only updates
// rating, corrected_name and download_started_at.
type Game struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	GUID string `gorm:"column:guid;uniqueIndex"`

	GameName      string  `gorm:"column:game_name"`
	TitleRaw      string  `gorm:"column:title_raw"`
	CorrectedName *string `gorm:"column:corrected_name"`
	FitgirlURL    string  `gorm:"column:fitgirl_url"`

	SizeOriginal string    `gorm:"column:size_original"`
	SizeRepack   string    `gorm:"column:size_repack"`
	PubDate      time.Time `gorm:"column:pub_date"`

	// Download lifecycle
	MagnetLink          *string    `gorm:"column:magnet_link"`
	TorrentHash         *string    `gorm:"column:torrent_hash"`
	DownloadStartedAt   *time.Time `gorm:"column:download_started_at"`
	DownloadCompletedAt *time.Time `gorm:"column:download_completed_at"`

	// Discord announcement tracking, written by the announcer consumer
	DiscordMessageID *string `gorm:"column:discord_message_id"`
	DiscordChannelID *string `gorm:"column:discord_channel_id"`

	// Steam enrichment, populated asynchronously by the enricher
	SteamAppID         *int64     `gorm:"column:steam_app_id"`
	SteamName          *string    `gorm:"column:steam_name"`
	SteamURL           *string    `gorm:"column:steam_url"`
	SteamHeaderImage   *string    `gorm:"column:steam_header_image"`
	SteamPrice         *string    `gorm:"column:steam_price"`
	SteamCategories    *string    `gorm:"column:steam_categories"`
	SteamReviewScore   *string    `gorm:"column:steam_review_score"`
	SteamReviewDesc    *string    `gorm:"column:steam_review_desc"`
	SteamTotalPositive *int64     `gorm:"column:steam_total_positive"`
	SteamTotalNegative *int64     `gorm:"column:steam_total_negative"`
	SteamRefreshedAt   *time.Time `gorm:"column:steam_refreshed_at"`

	Rating *Rating `gorm:"column:rating"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the games table name.
func (Game) TableName() string {
	return "games"
}

// DownloadStatus derives the download state from the lifecycle columns.
// Completion wins over an in-flight download, which wins over mere
// availability of a magnet link.
func (g *Game) DownloadStatus() DownloadStatus {
	switch {
	case g.DownloadCompletedAt != nil:
		return StatusCompleted
	case g.DownloadStartedAt != nil:
		return StatusDownloading
	case g.MagnetLink != nil:
		return StatusAvailable
	default:
		return StatusUnavailable
	}
}

// RefreshName returns the name the Steam enricher should search with:
// the user-corrected name when present, then the Steam name, then the
// parsed release name.
func (g *Game) RefreshName() string {
	if g.CorrectedName != nil && *g.CorrectedName != "" {
		return *g.CorrectedName
	}
	if g.SteamName != nil && *g.SteamName != "" {
		return *g.SteamName
	}
	return g.GameName
}

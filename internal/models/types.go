package models

// DownloadStatus is the derived state of a game's download lifecycle.
// It is never stored; see Game.DownloadStatus.
type DownloadStatus string

const (
	StatusAvailable   DownloadStatus = "AVAILABLE"
	StatusDownloading DownloadStatus = "DOWNLOADING"
	StatusCompleted   DownloadStatus = "COMPLETED"
	StatusUnavailable DownloadStatus = "UNAVAILABLE"
)

// Rating is the single system-wide vote on a game, stored lowercase.
type Rating string

const (
	RatingUpvote   Rating = "upvote"
	RatingDownvote Rating = "downvote"
)

// GameFilter narrows a games listing.
type GameFilter struct {
	// Search matches case-insensitively against game_name, title_raw,
	// steam_name and corrected_name (substring, OR semantics).
	Search string

	DownloadStatus *DownloadStatus
}

// Pagination bounds a games listing. Zero values fall back to the
// repository defaults (offset 0, limit 20).
type Pagination struct {
	Offset int
	Limit  int
}

// GamesConnection is a bounded page of games plus paging metadata.
type GamesConnection struct {
	Items      []Game
	TotalCount int
	HasMore    bool
}

// DownloadProgressMessage mirrors the progress payload emitted by the
// download consumer.
type DownloadProgressMessage struct {
	Hash          string  `json:"hash"`
	Name          string  `json:"name"`
	Progress      float64 `json:"progress"`
	DownloadSpeed float64 `json:"download_speed"`
	ETA           int     `json:"eta"`
	State         string  `json:"state"`
	Category      *string `json:"category,omitempty"`
}

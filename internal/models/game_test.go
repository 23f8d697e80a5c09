package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDownloadStatusDerivation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		game Game
		want DownloadStatus
	}{
		{
			name: "no magnet link",
			game: Game{},
			want: StatusUnavailable,
		},
		{
			name: "magnet link only",
			game: Game{MagnetLink: strPtr("magnet:?xt=urn:btih:abc")},
			want: StatusAvailable,
		},
		{
			name: "download started",
			game: Game{
				MagnetLink:        strPtr("magnet:?xt=urn:btih:abc"),
				DownloadStartedAt: timePtr(now),
			},
			want: StatusDownloading,
		},
		{
			name: "download completed",
			game: Game{
				MagnetLink:          strPtr("magnet:?xt=urn:btih:abc"),
				DownloadStartedAt:   timePtr(now.Add(-time.Hour)),
				DownloadCompletedAt: timePtr(now),
			},
			want: StatusCompleted,
		},
		{
			name: "completed wins even without started",
			game: Game{DownloadCompletedAt: timePtr(now)},
			want: StatusCompleted,
		},
		{
			name: "started wins without magnet link",
			game: Game{DownloadStartedAt: timePtr(now)},
			want: StatusDownloading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.DownloadStatus(); got != tt.want {
				t.Errorf("DownloadStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefreshName(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want string
	}{
		{
			name: "corrected name wins",
			game: Game{
				GameName:      "Elden Rign",
				CorrectedName: strPtr("Elden Ring"),
				SteamName:     strPtr("ELDEN RING"),
			},
			want: "Elden Ring",
		},
		{
			name: "steam name when no correction",
			game: Game{
				GameName:  "Elden Rign",
				SteamName: strPtr("ELDEN RING"),
			},
			want: "ELDEN RING",
		},
		{
			name: "game name as last resort",
			game: Game{GameName: "Elden Rign"},
			want: "Elden Rign",
		},
		{
			name: "empty corrected name is skipped",
			game: Game{
				GameName:      "Elden Rign",
				CorrectedName: strPtr(""),
				SteamName:     strPtr("ELDEN RING"),
			},
			want: "ELDEN RING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.RefreshName(); got != tt.want {
				t.Errorf("RefreshName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedactDSN(t *testing.T) {
	got := RedactDSN("postgres://releasarr:s3cret@db:5432/releasarr")
	want := "postgres://releasarr:***@db:5432/releasarr"
	if got != want {
		t.Errorf("RedactDSN() = %q, want %q", got, want)
	}

	// No credentials, nothing to redact
	plain := "postgres://db:5432/releasarr"
	if got := RedactDSN(plain); got != plain {
		t.Errorf("RedactDSN() = %q, want %q", got, plain)
	}
}

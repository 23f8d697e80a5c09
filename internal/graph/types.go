package graph

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	apperrors "github.com/releasarr/releasarr/internal/errors"
	"github.com/releasarr/releasarr/internal/models"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

type gameResolver struct {
	g *models.Game
}

func newGameResolver(g *models.Game) *gameResolver {
	return &gameResolver{g: g}
}

func (r *gameResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatInt(r.g.ID, 10))
}

func (r *gameResolver) GUID() string {
	return r.g.GUID
}

func (r *gameResolver) GameName() string {
	return r.g.GameName
}

func (r *gameResolver) TitleRaw() string {
	return r.g.TitleRaw
}

func (r *gameResolver) CorrectedName() *string {
	return r.g.CorrectedName
}

func (r *gameResolver) FitgirlURL() string {
	return r.g.FitgirlURL
}

func (r *gameResolver) PubDate() string {
	return formatTime(r.g.PubDate)
}

func (r *gameResolver) SizeOriginal() string {
	return r.g.SizeOriginal
}

func (r *gameResolver) SizeRepack() string {
	return r.g.SizeRepack
}

func (r *gameResolver) CreatedAt() string {
	return formatTime(r.g.CreatedAt)
}

func (r *gameResolver) UpdatedAt() string {
	return formatTime(r.g.UpdatedAt)
}

func (r *gameResolver) MagnetLink() *string {
	return r.g.MagnetLink
}

func (r *gameResolver) DownloadStartedAt() *string {
	return formatTimePtr(r.g.DownloadStartedAt)
}

func (r *gameResolver) DownloadCompletedAt() *string {
	return formatTimePtr(r.g.DownloadCompletedAt)
}

func (r *gameResolver) DownloadStatus() string {
	return string(r.g.DownloadStatus())
}

// Rating maps the stored lowercase value to the enum form.
func (r *gameResolver) Rating() *string {
	if r.g.Rating == nil {
		return nil
	}
	s := strings.ToUpper(string(*r.g.Rating))
	return &s
}

// Steam is non-null only once the enricher has resolved an app id.
func (r *gameResolver) Steam() (*steamResolver, error) {
	if r.g.SteamAppID == nil {
		return nil, nil
	}

	var categories *[]string
	if r.g.SteamCategories != nil && *r.g.SteamCategories != "" {
		var decoded []string
		if err := json.Unmarshal([]byte(*r.g.SteamCategories), &decoded); err != nil {
			return nil, apperrors.NewDatabaseError("decode steam categories", err, "guid="+r.g.GUID)
		}
		categories = &decoded
	}

	return &steamResolver{g: r.g, categories: categories}, nil
}

type steamResolver struct {
	g          *models.Game
	categories *[]string
}

func (r *steamResolver) AppID() int32 {
	return int32(*r.g.SteamAppID)
}

func (r *steamResolver) Name() *string {
	return r.g.SteamName
}

func (r *steamResolver) URL() string {
	if r.g.SteamURL == nil {
		return ""
	}
	return *r.g.SteamURL
}

func (r *steamResolver) HeaderImage() *string {
	return r.g.SteamHeaderImage
}

func (r *steamResolver) Price() *string {
	return r.g.SteamPrice
}

func (r *steamResolver) Categories() *[]string {
	return r.categories
}

func (r *steamResolver) ReviewScore() *string {
	return r.g.SteamReviewScore
}

func (r *steamResolver) ReviewDesc() *string {
	return r.g.SteamReviewDesc
}

func (r *steamResolver) TotalPositive() *int32 {
	return int64PtrToInt32(r.g.SteamTotalPositive)
}

func (r *steamResolver) TotalNegative() *int32 {
	return int64PtrToInt32(r.g.SteamTotalNegative)
}

func (r *steamResolver) SteamRefreshedAt() *string {
	return formatTimePtr(r.g.SteamRefreshedAt)
}

func int64PtrToInt32(v *int64) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

type gamesConnectionResolver struct {
	conn *models.GamesConnection
}

func (r *gamesConnectionResolver) Items() []*gameResolver {
	items := make([]*gameResolver, len(r.conn.Items))
	for i := range r.conn.Items {
		items[i] = newGameResolver(&r.conn.Items[i])
	}
	return items
}

func (r *gamesConnectionResolver) TotalCount() int32 {
	return int32(r.conn.TotalCount)
}

func (r *gamesConnectionResolver) HasMore() bool {
	return r.conn.HasMore
}

type downloadResultResolver struct {
	success bool
	message *string
	game    *gameResolver
}

func (r *downloadResultResolver) Success() bool {
	return r.success
}

func (r *downloadResultResolver) Message() *string {
	return r.message
}

func (r *downloadResultResolver) Game() *gameResolver {
	return r.game
}

type ratingResultResolver struct {
	game *gameResolver
}

func (r *ratingResultResolver) Success() bool {
	return true
}

func (r *ratingResultResolver) Game() *gameResolver {
	return r.game
}

type refreshSteamResultResolver struct {
	message string
}

func (r *refreshSteamResultResolver) Success() bool {
	return true
}

func (r *refreshSteamResultResolver) Message() *string {
	return &r.message
}

type resetResultResolver struct {
	message string
}

func (r *resetResultResolver) Success() bool {
	return true
}

func (r *resetResultResolver) Message() *string {
	return &r.message
}

// DownloadProgressEvent is the payload fanned out on the
// download-progress topic.
type DownloadProgressEvent struct {
	GameID        string
	Progress      float64
	DownloadSpeed float64
	ETA           int32
	State         string
}

type downloadProgressEventResolver struct {
	ev *DownloadProgressEvent
}

func (r *downloadProgressEventResolver) GameID() graphql.ID {
	return graphql.ID(r.ev.GameID)
}

func (r *downloadProgressEventResolver) Progress() float64 {
	return r.ev.Progress
}

func (r *downloadProgressEventResolver) DownloadSpeed() float64 {
	return r.ev.DownloadSpeed
}

func (r *downloadProgressEventResolver) ETA() int32 {
	return r.ev.ETA
}

func (r *downloadProgressEventResolver) State() string {
	return r.ev.State
}

// Package graph holds the GraphQL schema, resolvers and the event hub
// backing subscriptions.
package graph

import (
	"context"
	"strconv"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	apperrors "github.com/releasarr/releasarr/internal/errors"
	"github.com/releasarr/releasarr/internal/models"
)

// GamesRepository is the storage surface the resolvers need.
type GamesRepository interface {
	FindAll(ctx context.Context, filter *models.GameFilter, page *models.Pagination) (*models.GamesConnection, error)
	FindByID(ctx context.Context, id int64) (*models.Game, error)
	FindByGUID(ctx context.Context, guid string) (*models.Game, error)
	FindActiveDownloads(ctx context.Context) ([]models.Game, error)
	FindRecent(ctx context.Context, limit int) ([]models.Game, error)
	UpdateRating(ctx context.Context, id int64, rating *models.Rating) (*models.Game, error)
	UpdateCorrectedName(ctx context.Context, id int64, correctedName string) (*models.Game, error)
	UpdateDownloadStarted(ctx context.Context, guid string) error
}

// DownloadPublisher emits download requests for the torrent consumer.
type DownloadPublisher interface {
	AddDownload(ctx context.Context, id, magnetLink string) error
}

// PipelinePublisher emits administrative commands to the ingestion
// pipeline.
type PipelinePublisher interface {
	ResetPipeline(ctx context.Context, source string, reason *string) error
	RefreshSteam(ctx context.Context, gameID int64, correctedName string) error
}

// Resolver is the root resolver wired into the parsed schema.
type Resolver struct {
	repo     GamesRepository
	torrents DownloadPublisher
	pipeline PipelinePublisher
	pubsub   *PubSub
	logger   *logrus.Logger
}

// NewResolver wires the root resolver.
func NewResolver(repo GamesRepository, torrents DownloadPublisher, pipeline PipelinePublisher, pubsub *PubSub, logger *logrus.Logger) *Resolver {
	return &Resolver{
		repo:     repo,
		torrents: torrents,
		pipeline: pipeline,
		pubsub:   pubsub,
		logger:   logger,
	}
}

// NewSchema parses the SDL against the resolver.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r)
}

func parseGameID(id graphql.ID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

type gameFilterInput struct {
	Search         *string
	DownloadStatus *string
}

type paginationInput struct {
	Offset int32
	Limit  int32
}

// Games lists games newest first, optionally filtered and paginated.
func (r *Resolver) Games(ctx context.Context, args struct {
	Filter     *gameFilterInput
	Pagination *paginationInput
}) (*gamesConnectionResolver, error) {
	var filter *models.GameFilter
	if args.Filter != nil {
		filter = &models.GameFilter{}
		if args.Filter.Search != nil {
			filter.Search = *args.Filter.Search
		}
		if args.Filter.DownloadStatus != nil {
			status := models.DownloadStatus(*args.Filter.DownloadStatus)
			filter.DownloadStatus = &status
		}
	}

	var page *models.Pagination
	if args.Pagination != nil {
		page = &models.Pagination{
			Offset: int(args.Pagination.Offset),
			Limit:  int(args.Pagination.Limit),
		}
	}

	conn, err := r.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &gamesConnectionResolver{conn: conn}, nil
}

// Game resolves a single game by numeric id or by guid. Both absent, or
// a lookup miss, yields null rather than an error.
func (r *Resolver) Game(ctx context.Context, args struct {
	ID   *graphql.ID
	GUID *string
}) (*gameResolver, error) {
	var (
		game *models.Game
		err  error
	)
	switch {
	case args.ID != nil:
		id, ok := parseGameID(*args.ID)
		if !ok {
			return nil, nil
		}
		game, err = r.repo.FindByID(ctx, id)
	case args.GUID != nil:
		game, err = r.repo.FindByGUID(ctx, *args.GUID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}
	return newGameResolver(game), nil
}

// ActiveDownloads lists games with a download in flight.
func (r *Resolver) ActiveDownloads(ctx context.Context) ([]*gameResolver, error) {
	games, err := r.repo.FindActiveDownloads(ctx)
	if err != nil {
		return nil, err
	}
	return gameResolvers(games), nil
}

// RecentGames lists the most recently published games.
func (r *Resolver) RecentGames(ctx context.Context, args struct{ Limit *int32 }) ([]*gameResolver, error) {
	limit := 10
	if args.Limit != nil {
		limit = int(*args.Limit)
	}
	games, err := r.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return gameResolvers(games), nil
}

func gameResolvers(games []models.Game) []*gameResolver {
	out := make([]*gameResolver, len(games))
	for i := range games {
		out[i] = newGameResolver(&games[i])
	}
	return out
}

// StartDownload requests a torrent download for a game. A missing game
// or magnet link is reported as an unsuccessful result, not an error;
// publish failures and storage failures propagate. The download request
// is published before the row is marked started, so a broker failure
// leaves the game available for retry.
func (r *Resolver) StartDownload(ctx context.Context, args struct{ GameID graphql.ID }) (*downloadResultResolver, error) {
	var game *models.Game
	if id, ok := parseGameID(args.GameID); ok {
		var err error
		game, err = r.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if game == nil {
		msg := "Game not found"
		return &downloadResultResolver{success: false, message: &msg}, nil
	}
	if game.MagnetLink == nil {
		msg := "No magnet link available for this game"
		return &downloadResultResolver{success: false, message: &msg, game: newGameResolver(game)}, nil
	}

	if err := r.torrents.AddDownload(ctx, game.GUID, *game.MagnetLink); err != nil {
		return nil, err
	}
	if err := r.repo.UpdateDownloadStarted(ctx, game.GUID); err != nil {
		return nil, err
	}

	updated, err := r.repo.FindByID(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	r.logger.WithField("guid", game.GUID).Info("Download started")

	msg := "Download started"
	result := &downloadResultResolver{success: true, message: &msg}
	if updated != nil {
		result.game = newGameResolver(updated)
	}
	return result, nil
}

// SetRating sets or clears the game's rating. A null rating clears it.
func (r *Resolver) SetRating(ctx context.Context, args struct {
	GameID graphql.ID
	Rating *string
}) (*ratingResultResolver, error) {
	id, ok := parseGameID(args.GameID)
	if !ok {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}

	var rating *models.Rating
	if args.Rating != nil {
		v := models.Rating(strings.ToLower(*args.Rating))
		rating = &v
	}

	game, err := r.repo.UpdateRating(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}
	return &ratingResultResolver{game: newGameResolver(game)}, nil
}

// UpdateGameName stores a user-corrected name for a game.
func (r *Resolver) UpdateGameName(ctx context.Context, args struct {
	GameID        graphql.ID
	CorrectedName string
}) (*gameResolver, error) {
	id, ok := parseGameID(args.GameID)
	if !ok {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}

	game, err := r.repo.UpdateCorrectedName(ctx, id, args.CorrectedName)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}
	return newGameResolver(game), nil
}

// RefreshSteam asks the enricher to re-resolve a game's Steam metadata.
func (r *Resolver) RefreshSteam(ctx context.Context, args struct{ GameID graphql.ID }) (*refreshSteamResultResolver, error) {
	id, ok := parseGameID(args.GameID)
	if !ok {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}

	game, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperrors.NewGameNotFound(string(args.GameID))
	}

	if err := r.pipeline.RefreshSteam(ctx, game.ID, game.RefreshName()); err != nil {
		return nil, err
	}
	return &refreshSteamResultResolver{message: "Steam refresh initiated"}, nil
}

// ResetPipeline asks the ingestion pipeline to clear its state and
// re-fetch everything.
func (r *Resolver) ResetPipeline(ctx context.Context, args struct{ Reason *string }) (*resetResultResolver, error) {
	if err := r.pipeline.ResetPipeline(ctx, "dashboard", args.Reason); err != nil {
		return nil, err
	}
	return &resetResultResolver{message: "Pipeline reset initiated"}, nil
}

// DownloadProgress streams progress events, optionally restricted to one
// game.
func (r *Resolver) DownloadProgress(ctx context.Context, args struct{ GameID *graphql.ID }) (<-chan *downloadProgressEventResolver, error) {
	var filter FilterFunc
	if args.GameID != nil {
		want := string(*args.GameID)
		filter = func(payload interface{}) bool {
			ev, ok := payload.(*DownloadProgressEvent)
			return ok && ev.GameID == want
		}
	}

	events := r.pubsub.Subscribe(ctx, TopicDownloadProgress, filter)
	out := make(chan *downloadProgressEventResolver)
	go func() {
		defer close(out)
		for payload := range events {
			ev, ok := payload.(*DownloadProgressEvent)
			if !ok {
				continue
			}
			select {
			case out <- &downloadProgressEventResolver{ev: ev}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// NewRelease streams games as the ingestion pipeline announces them.
func (r *Resolver) NewRelease(ctx context.Context) (<-chan *gameResolver, error) {
	events := r.pubsub.Subscribe(ctx, TopicNewRelease, nil)
	out := make(chan *gameResolver)
	go func() {
		defer close(out)
		for payload := range events {
			game, ok := payload.(*models.Game)
			if !ok {
				continue
			}
			select {
			case out <- newGameResolver(game):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// PublishDownloadProgress fans a consumer progress report out to
// subscribers.
func (r *Resolver) PublishDownloadProgress(gameID string, msg models.DownloadProgressMessage) {
	r.pubsub.Publish(TopicDownloadProgress, &DownloadProgressEvent{
		GameID:        gameID,
		Progress:      msg.Progress,
		DownloadSpeed: msg.DownloadSpeed,
		ETA:           int32(msg.ETA),
		State:         msg.State,
	})
}

// PublishNewRelease fans a newly ingested game out to subscribers.
func (r *Resolver) PublishNewRelease(game *models.Game) {
	r.pubsub.Publish(TopicNewRelease, game)
}

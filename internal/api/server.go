// Package api serves the GraphQL endpoints plus the operational HTTP
// surface (health, status, metrics, event callbacks).
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/api/handlers"
	"github.com/releasarr/releasarr/internal/api/middleware"
	"github.com/releasarr/releasarr/internal/broker"
	"github.com/releasarr/releasarr/internal/config"
	"github.com/releasarr/releasarr/internal/graph"
	"github.com/releasarr/releasarr/internal/metrics"
	"github.com/releasarr/releasarr/internal/models"
	"github.com/releasarr/releasarr/internal/repositories"
)

// Server runs the two HTTP listeners: queries and mutations on the API
// port, the websocket subscription transport on its own port.
type Server struct {
	httpServer *http.Server
	wsServer   *http.Server
	db         *models.Database
	broker     *broker.Broker
	repo       *repositories.GamesRepository
	resolver   *graph.Resolver
	logger     *logrus.Logger
}

// NewServer creates both listeners around the parsed schema.
func NewServer(cfg *config.Config, schema *graphqlgo.Schema, resolver *graph.Resolver, db *models.Database, b *broker.Broker, repo *repositories.GamesRepository, logger *logrus.Logger) *Server {
	s := &Server{
		db:       db,
		broker:   b,
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}

	graphqlHandler := &relay.Handler{Schema: schema}

	mux := http.NewServeMux()
	s.setupRoutes(mux, graphqlHandler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GraphQLPort),
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	wsMux := http.NewServeMux()
	wsMux.HandleFunc("/graphql", graphqlws.NewHandlerFunc(schema, graphqlHandler))

	// No write timeout here: subscription connections are long-lived.
	s.wsServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.GraphQLWSPort),
		Handler:     middleware.Logging(wsMux, logger),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, graphqlHandler http.Handler) {
	mux.Handle("/", playground.Handler("GraphQL Playground", "/graphql"))
	mux.Handle("/graphql", graphqlHandler)
	mux.Handle("/metrics", metrics.Handler())

	healthHandler := handlers.NewHealthHandler(s.db, s.broker, s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	statusHandler := handlers.NewStatusHandler(s.repo, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	eventsHandler := handlers.NewEventsHandler(s.resolver, s.repo, s.logger)
	mux.HandleFunc("/api/events/download-progress", eventsHandler.HandleDownloadProgress)
	mux.HandleFunc("/api/events/new-release", eventsHandler.HandleNewRelease)
}

// Start runs both listeners until ctx is cancelled or either fails.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"http_addr": s.httpServer.Addr,
		"ws_addr":   s.wsServer.Addr,
	}).Info("Starting GraphQL servers")

	errChan := make(chan error, 2)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()
	go func() {
		if err := s.wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("ws server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops both listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down GraphQL servers")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.wsServer.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Warn("Websocket server shutdown failed")
	}
	return s.httpServer.Shutdown(shutdownCtx)
}

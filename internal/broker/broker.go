// Package broker manages the NATS JetStream connection and the durable
// streams the publishers write to.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// Stream and subject layout. The download-request and pipeline-control
// streams are separate so each consumer owns its own subject namespace.
const (
	StreamDownloads = "qbittorrent"
	StreamPipeline  = "fitgirl"

	SubjectAddDownload  = "downloads.add"
	SubjectReset        = "pipeline.reset"
	SubjectSteamRefresh = "pipeline.steam.refresh"
)

// Broker owns the long-lived NATS connection shared by all publishers.
type Broker struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Logger
}

// Connect dials the broker, retrying with exponential backoff until the
// context expires, and initializes JetStream.
func Connect(ctx context.Context, url string, logger *logrus.Logger) (*Broker, error) {
	var conn *nats.Conn

	operation := func() error {
		var err error
		conn, err = nats.Connect(url,
			nats.Name("releasarr"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.Timeout(5*time.Second),
		)
		return err
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		logger.WithError(err).WithField("retry_in", next).Warn("Broker connection failed, retrying")
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	logger.WithField("url", url).Info("Broker connected")

	return &Broker{
		conn:   conn,
		js:     js,
		logger: logger,
	}, nil
}

// EnsureStreams asserts the two durable streams this service publishes
// to, creating them when absent.
func (b *Broker) EnsureStreams(ctx context.Context) error {
	streams := []jetstream.StreamConfig{
		{
			Name:     StreamDownloads,
			Subjects: []string{"downloads.>"},
			Storage:  jetstream.FileStorage,
		},
		{
			Name:     StreamPipeline,
			Subjects: []string{"pipeline.>"},
			Storage:  jetstream.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := b.js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to ensure stream %s: %w", cfg.Name, err)
		}
		b.logger.WithField("stream", cfg.Name).Debug("Stream asserted")
	}

	return nil
}

// Publish emits data on a subject and waits for the stream ack, so a
// failed publish is observable before any dependent state change.
func (b *Broker) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := b.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// IsConnected reports whether the underlying connection is up.
func (b *Broker) IsConnected() bool {
	return b.conn != nil && b.conn.IsConnected()
}

// Close drains the connection, flushing buffered publishes.
func (b *Broker) Close() error {
	b.logger.Info("Closing broker connection")
	return b.conn.Drain()
}

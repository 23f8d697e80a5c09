package graph

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/releasarr/releasarr/internal/metrics"
)

// Topics served by the in-process event hub.
const (
	TopicDownloadProgress = "DOWNLOAD_PROGRESS"
	TopicNewRelease       = "NEW_RELEASE"
)

// subscriberBuffer bounds how far a slow consumer may lag before events
// are dropped for it. Publishing never blocks.
const subscriberBuffer = 16

// FilterFunc decides whether a payload is delivered to one subscriber.
// A nil filter accepts everything.
type FilterFunc func(payload interface{}) bool

type subscriber struct {
	ch     chan interface{}
	filter FilterFunc
}

// PubSub is the in-process event hub backing GraphQL subscriptions.
// Events published to a topic fan out to all current subscribers whose
// filter accepts them, in publish order.
type PubSub struct {
	mu     sync.Mutex
	topics map[string]map[string]*subscriber
	logger *logrus.Logger
}

// NewPubSub creates an empty hub.
func NewPubSub(logger *logrus.Logger) *PubSub {
	return &PubSub{
		topics: make(map[string]map[string]*subscriber),
		logger: logger,
	}
}

// Subscribe registers a listener on topic and returns its event channel.
// The subscription lives until ctx is cancelled, at which point the
// channel is closed.
func (p *PubSub) Subscribe(ctx context.Context, topic string, filter FilterFunc) <-chan interface{} {
	id := uuid.NewString()
	sub := &subscriber{
		ch:     make(chan interface{}, subscriberBuffer),
		filter: filter,
	}

	p.mu.Lock()
	if p.topics[topic] == nil {
		p.topics[topic] = make(map[string]*subscriber)
	}
	p.topics[topic][id] = sub
	p.mu.Unlock()

	metrics.ActiveSubscribers.WithLabelValues(topic).Inc()
	p.logger.WithFields(logrus.Fields{
		"topic":         topic,
		"subscriber_id": id,
	}).Debug("Subscriber registered")

	go func() {
		<-ctx.Done()
		p.unsubscribe(topic, id)
	}()

	return sub.ch
}

func (p *PubSub) unsubscribe(topic, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.topics[topic]
	sub, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	close(sub.ch)

	metrics.ActiveSubscribers.WithLabelValues(topic).Dec()
	p.logger.WithFields(logrus.Fields{
		"topic":         topic,
		"subscriber_id": id,
	}).Debug("Subscriber removed")
}

// Publish delivers payload to every matching subscriber of topic.
// Subscribers whose buffer is full miss the event rather than stall the
// publisher.
func (p *PubSub) Publish(topic string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, sub := range p.topics[topic] {
		if sub.filter != nil && !sub.filter(payload) {
			continue
		}
		select {
		case sub.ch <- payload:
		default:
			p.logger.WithFields(logrus.Fields{
				"topic":         topic,
				"subscriber_id": id,
			}).Warn("Subscriber buffer full, dropping event")
		}
	}
}

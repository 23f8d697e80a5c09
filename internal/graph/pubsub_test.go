package graph

import (
	"context"
	"testing"
	"time"

	"github.com/releasarr/releasarr/internal/models"
)

func receive(t *testing.T, ch <-chan interface{}) interface{} {
	t.Helper()
	select {
	case payload, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before delivery")
		}
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPubSubBroadcastsToAllSubscribers(t *testing.T) {
	ps := NewPubSub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := ps.Subscribe(ctx, TopicNewRelease, nil)
	second := ps.Subscribe(ctx, TopicNewRelease, nil)

	game := &models.Game{ID: 1, GUID: "g-1"}
	ps.Publish(TopicNewRelease, game)

	for _, ch := range []<-chan interface{}{first, second} {
		got, ok := receive(t, ch).(*models.Game)
		if !ok || got.GUID != "g-1" {
			t.Errorf("received %v, want game g-1", got)
		}
	}
}

func TestPubSubFilterRestrictsDelivery(t *testing.T) {
	ps := NewPubSub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	filtered := ps.Subscribe(ctx, TopicDownloadProgress, func(payload interface{}) bool {
		ev, ok := payload.(*DownloadProgressEvent)
		return ok && ev.GameID == "1"
	})
	all := ps.Subscribe(ctx, TopicDownloadProgress, nil)

	ps.Publish(TopicDownloadProgress, &DownloadProgressEvent{GameID: "2", Progress: 0.5})
	ps.Publish(TopicDownloadProgress, &DownloadProgressEvent{GameID: "1", Progress: 0.9})

	got := receive(t, filtered).(*DownloadProgressEvent)
	if got.GameID != "1" {
		t.Errorf("filtered subscriber got game %q, want 1", got.GameID)
	}

	firstAll := receive(t, all).(*DownloadProgressEvent)
	secondAll := receive(t, all).(*DownloadProgressEvent)
	if firstAll.GameID != "2" || secondAll.GameID != "1" {
		t.Errorf("unfiltered order = [%q, %q], want [2, 1]", firstAll.GameID, secondAll.GameID)
	}
}

func TestPubSubPreservesPublishOrder(t *testing.T) {
	ps := NewPubSub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := ps.Subscribe(ctx, TopicDownloadProgress, nil)

	want := []float64{0.1, 0.2, 0.3, 0.4}
	for _, p := range want {
		ps.Publish(TopicDownloadProgress, &DownloadProgressEvent{GameID: "1", Progress: p})
	}

	for i, wantProgress := range want {
		got := receive(t, ch).(*DownloadProgressEvent)
		if got.Progress != wantProgress {
			t.Errorf("event %d progress = %v, want %v", i, got.Progress, wantProgress)
		}
	}
}

func TestPubSubCancelClosesChannel(t *testing.T) {
	ps := NewPubSub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	ch := ps.Subscribe(ctx, TopicNewRelease, nil)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received event after cancel, want closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}

	// Publishing after removal must not panic or block.
	ps.Publish(TopicNewRelease, &models.Game{ID: 1})
}

func TestPubSubDropsEventsForSlowSubscriber(t *testing.T) {
	ps := NewPubSub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := ps.Subscribe(ctx, TopicDownloadProgress, nil)

	// Overflow the buffer; publishes must not block.
	for i := 0; i < subscriberBuffer+5; i++ {
		ps.Publish(TopicDownloadProgress, &DownloadProgressEvent{GameID: "1", Progress: float64(i)})
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	if delivered != subscriberBuffer {
		t.Errorf("delivered %d events, want %d", delivered, subscriberBuffer)
	}
}

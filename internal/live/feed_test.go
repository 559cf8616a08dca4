package live

import (
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/planr/internal/model"
)

func collectEvents(t *testing.T, feed *Feed, eventType EventType) (*[]Event, *sync.Mutex, func()) {
	t.Helper()
	var mu sync.Mutex
	var got []Event
	unsubscribe := feed.Subscribe(eventType, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	return &got, &mu, unsubscribe
}

func waitForEvents(t *testing.T, mu *sync.Mutex, got *[]Event, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(*got)
		mu.Unlock()
		if n >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events", want)
}

func TestFeedDeliversWhileConnected(t *testing.T) {
	feed := NewFeed(4)
	got, mu, unsubscribe := collectEvents(t, feed, EventExportUpdated)
	defer unsubscribe()

	feed.Connect("token-1")
	feed.Publish(Event{Type: EventExportUpdated, Job: model.ExportJob{ID: "exp-1", Status: model.ExportStatusProcessing}})

	waitForEvents(t, mu, got, 1)
	mu.Lock()
	defer mu.Unlock()
	if (*got)[0].Job.ID != "exp-1" {
		t.Fatalf("expected job exp-1, got %q", (*got)[0].Job.ID)
	}
}

func TestFeedDropsWhileDisconnected(t *testing.T) {
	feed := NewFeed(4)
	got, mu, unsubscribe := collectEvents(t, feed, EventExportUpdated)
	defer unsubscribe()

	feed.Publish(Event{Type: EventExportUpdated, Job: model.ExportJob{ID: "exp-1"}})
	feed.Connect("token-1")
	feed.Disconnect()
	feed.Publish(Event{Type: EventExportUpdated, Job: model.ExportJob{ID: "exp-2"}})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(*got) != 0 {
		t.Fatalf("expected no events delivered while disconnected, got %d", len(*got))
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	feed := NewFeed(4)
	got, mu, unsubscribe := collectEvents(t, feed, EventExportUpdated)

	feed.Connect("token-1")
	feed.Publish(Event{Type: EventExportUpdated, Job: model.ExportJob{ID: "exp-1"}})
	waitForEvents(t, mu, got, 1)

	unsubscribe()
	feed.Publish(Event{Type: EventExportUpdated, Job: model.ExportJob{ID: "exp-2"}})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(*got) != 1 {
		t.Fatalf("expected exactly 1 event after unsubscribe, got %d", len(*got))
	}
}

// Package live delivers server-pushed events to the client over a
// single long-lived connection per session. Delivery is best-effort:
// at most once, possibly duplicated upstream, possibly missed.
package live

import (
	"sync"

	"github.com/sandeepkv93/planr/internal/model"
)

type EventType string

const (
	// EventExportUpdated carries the full updated export-job record
	// whenever a background job changes status.
	EventExportUpdated EventType = "export:updated"
)

type Event struct {
	Type EventType
	Job  model.ExportJob
}

// Subscriber receives events for one event type.
type Subscriber func(Event)

// Feed is a non-blocking pub/sub channel. Events are delivered
// asynchronously via buffered per-subscriber channels; if a
// subscriber's channel is full the event is dropped silently. Nothing
// is delivered while the feed is disconnected.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	bufferSize  int
	connected   bool
	token       string
}

func NewFeed(bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Feed{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Connect opens the feed for the given session token. Reconnecting
// with a new token replaces the old one.
func (f *Feed) Connect(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	f.token = token
}

func (f *Feed) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.token = ""
}

func (f *Feed) Connected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.connected
}

// Subscribe registers a subscriber for one event type and returns an
// unsubscribe function. The subscriber runs on its own goroutine.
func (f *Feed) Subscribe(eventType EventType, fn Subscriber) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, f.bufferSize)
	f.subscribers[eventType] = append(f.subscribers[eventType], ch)

	go func() {
		for event := range ch {
			fn(event)
		}
	}()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[eventType]
		for i, subCh := range subs {
			if subCh == ch {
				f.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
}

// Publish delivers an event to every current subscriber of its type.
// Disconnected feeds and full subscriber buffers drop the event.
func (f *Feed) Publish(event Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.connected {
		return
	}
	for _, ch := range f.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Package sse implements a Server-Sent Events broker that keeps the host
// editor in sync: it announces index changes and tells the editor which
// document to open.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types sent to clients.
const (
	TypeDocumentCreated = "document.created"
	TypeDocumentUpdated = "document.updated"
	TypeDocumentDeleted = "document.deleted"
	TypeIndexUpdated    = "index.updated"
	TypeSettingsUpdated = "settings.updated"
	TypeDocumentOpen    = "document.open"
	TypeNotice          = "notice"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type documentEventReq struct {
	kind string
	path string
}

// Broker manages SSE client connections and broadcasts events.
//
// A single loop goroutine owns the clients, the index.updated throttle and
// the pending settings payload. Public methods talk to it over channels.
type Broker struct {
	indexMin      time.Duration
	settingsDelay time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	documentCh    chan documentEventReq
	settingsCh    chan any
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// settingsCoalesce is how long settings.updated waits for further saves. A
// burst of rule edits produces one event carrying the final command list.
const settingsCoalesce = 100 * time.Millisecond

var documentEventTypes = map[string]string{
	"created": TypeDocumentCreated,
	"updated": TypeDocumentUpdated,
	"deleted": TypeDocumentDeleted,
}

// NewBroker creates a new SSE broker. index.updated is emitted at most once
// per indexThrottle.
func NewBroker(indexThrottle time.Duration) *Broker {
	if indexThrottle <= 0 {
		indexThrottle = 2 * time.Second
	}

	b := &Broker{
		indexMin:      indexThrottle,
		settingsDelay: settingsCoalesce,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		documentCh:    make(chan documentEventReq, 256),
		settingsCh:    make(chan any, 16),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastIndex time.Time

	var pendingSettings any
	var settingsTimer *time.Timer
	var settingsDue <-chan time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			if settingsTimer != nil {
				settingsTimer.Stop()
			}
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.documentCh:
			if typ, ok := documentEventTypes[req.kind]; ok {
				broadcast(Event{Type: typ, Data: map[string]string{"path": req.path}})
			}

			now := time.Now()
			if now.Sub(lastIndex) >= b.indexMin {
				lastIndex = now
				broadcast(Event{Type: TypeIndexUpdated, Data: map[string]string{}})
			}

		case data := <-b.settingsCh:
			pendingSettings = data
			if settingsDue == nil {
				settingsTimer = time.NewTimer(b.settingsDelay)
				settingsDue = settingsTimer.C
			}

		case <-settingsDue:
			broadcast(Event{Type: TypeSettingsUpdated, Data: pendingSettings})
			pendingSettings, settingsTimer, settingsDue = nil, nil, nil

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishDocumentEvent publishes a document change and a throttled
// index.updated event. kind is one of the index.Event* constants.
func (b *Broker) PublishDocumentEvent(kind, path string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.documentCh <- documentEventReq{kind: kind, path: path}:
	case <-b.stopped:
	}
}

// PublishSettings schedules a settings.updated event carrying data, usually
// the refreshed command list. Calls within one coalescing window collapse
// into a single event with the latest data.
func (b *Broker) PublishSettings(data any) {
	if b.closed.Load() {
		return
	}
	select {
	case b.settingsCh <- data:
	case <-b.stopped:
	}
}

// PublishOpen asks connected editors to open a document.
func (b *Broker) PublishOpen(path string) {
	b.Publish(Event{Type: TypeDocumentOpen, Data: map[string]string{"path": path}})
}

// PublishNotice forwards an advisory message to connected editors.
func (b *Broker) PublishNotice(key, message string) {
	b.Publish(Event{Type: TypeNotice, Data: map[string]string{"key": key, "message": message}})
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}

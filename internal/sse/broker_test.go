package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return ""
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: TypeSettingsUpdated, Data: map[string]int{"groups": 2}})

	s := receive(t, ch)
	if !strings.Contains(s, "event: settings.updated") {
		t.Errorf("missing event type in %q", s)
	}
	if !strings.Contains(s, `"groups":2`) {
		t.Errorf("missing data in %q", s)
	}
}

func TestPublishOpenAndNotice(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishOpen("notes/b.md")
	b.PublishNotice("notices.noCandidateFound", "No matching file was found for this group.")

	open := receive(t, ch)
	if !strings.Contains(open, "event: document.open") || !strings.Contains(open, `"path":"notes/b.md"`) {
		t.Errorf("open event = %q", open)
	}
	notice := receive(t, ch)
	if !strings.Contains(notice, "event: notice") || !strings.Contains(notice, `"key":"notices.noCandidateFound"`) {
		t.Errorf("notice event = %q", notice)
	}
}

func TestPublishDocumentEvent_IndexThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger index.updated.
	b.PublishDocumentEvent("created", "a.md")
	// Second event immediately should NOT trigger another index.updated.
	b.PublishDocumentEvent("updated", "b.md")

	time.Sleep(50 * time.Millisecond)
	indexCount := 0
	docCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "index.updated") {
				indexCount++
			} else if strings.Contains(s, "event: document.") {
				docCount++
			}
		default:
			break loop
		}
	}

	if docCount != 2 {
		t.Errorf("document events = %d, want 2", docCount)
	}
	if indexCount != 1 {
		t.Errorf("index events = %d, want 1 (throttled)", indexCount)
	}
}

func TestPublishSettings_Coalesces(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 1; i <= 3; i++ {
		b.PublishSettings(map[string]int{"version": i})
	}

	s := receive(t, ch)
	if !strings.Contains(s, "event: settings.updated") || !strings.Contains(s, `"version":3`) {
		t.Errorf("settings event = %q", s)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected second event %q", extra)
	case <-time.After(3 * settingsCoalesce):
	}

	// A later save opens a new window.
	b.PublishSettings(map[string]int{"version": 4})
	if s := receive(t, ch); !strings.Contains(s, `"version":4`) {
		t.Errorf("second window event = %q", s)
	}
}

func TestPublishDocumentEvent_UnknownKindOnlyTouchesIndex(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocumentEvent("renamed", "a.md")
	if s := receive(t, ch); !strings.Contains(s, "event: index.updated") {
		t.Errorf("event = %q, want index.updated only", s)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishOpen("x.md")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: document.open") {
		t.Errorf("handler output missing event: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Buffer holds 64; the extra publishes must not block the loop.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.PublishOpen("x.md")
	b.PublishDocumentEvent("updated", "x.md")
}

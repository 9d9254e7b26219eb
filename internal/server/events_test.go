package server

import (
	"context"
	"testing"
	"time"

	"github.com/jmendez/crmboard/internal/board"
	"github.com/jmendez/crmboard/internal/types"
)

func waitForEvent(t *testing.T, events <-chan Event, name string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("Event channel closed while waiting for %q", name)
			}
			if ev.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %q event", name)
		}
	}
}

func TestEventHub_BroadcastsBoardChanges(t *testing.T) {
	b, _, _ := newTestBoard(t)
	hub := NewEventHub(b)
	defer hub.Close()

	events, cancel := hub.Register()
	defer cancel()

	if _, err := b.AddStage(context.Background(), "Negotiation"); err != nil {
		t.Fatalf("AddStage failed: %v", err)
	}

	ev := waitForEvent(t, events, "board")
	view, ok := ev.Data.(*types.PipelineView)
	if !ok {
		t.Fatalf("Expected *types.PipelineView payload, got %T", ev.Data)
	}
	if len(view.Columns) != 2 {
		t.Errorf("Expected 2 regular columns after add, got %d", len(view.Columns))
	}
}

func TestEventHub_FansOutNotifications(t *testing.T) {
	b, _, _ := newTestBoard(t)
	hub := NewEventHub(b)
	defer hub.Close()

	events, cancel := hub.Register()
	defer cancel()

	hub.Notify(board.Notification{
		Key:     "unassign-deal",
		Type:    board.NotifyError,
		Message: "could not move the deal",
	})

	ev := waitForEvent(t, events, "notification")
	n, ok := ev.Data.(board.Notification)
	if !ok {
		t.Fatalf("Expected board.Notification payload, got %T", ev.Data)
	}
	if n.Key != "unassign-deal" || n.Type != board.NotifyError {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestEventHub_EmitsNavigateOnTerminalDrop(t *testing.T) {
	b, _, deal := newTestBoard(t)
	hub := NewEventHub(b)
	defer hub.Close()

	drag := board.NewDragController(b, hub, hub)

	events, cancel := hub.Register()
	defer cancel()

	if _, _, err := drag.HandleDragEnd(context.Background(), deal.ID, "won"); err != nil {
		t.Fatalf("HandleDragEnd failed: %v", err)
	}

	ev := waitForEvent(t, events, "navigate")
	payload, ok := ev.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected map payload, got %T", ev.Data)
	}
	if payload["resource"] != board.FinalizeResource {
		t.Errorf("resource = %v, expected %q", payload["resource"], board.FinalizeResource)
	}
	if payload["id"] != deal.ID {
		t.Errorf("id = %v, expected the dropped deal's id %s", payload["id"], deal.ID)
	}
	if payload["mode"] != board.NavigateReplace {
		t.Errorf("mode = %v, expected %q", payload["mode"], board.NavigateReplace)
	}
}

func TestEventHub_CancelStopsDelivery(t *testing.T) {
	b, _, _ := newTestBoard(t)
	hub := NewEventHub(b)
	defer hub.Close()

	events, cancel := hub.Register()
	cancel()

	hub.Notify(board.Notification{Key: "k", Type: board.NotifySuccess, Message: "m"})

	select {
	case ev, ok := <-events:
		if ok {
			t.Errorf("Received %q after cancel", ev.Name)
		}
	case <-time.After(100 * time.Millisecond):
		// Channel neither closed nor delivered; also acceptable
	}
}

func TestEventHub_SlowClientDoesNotBlock(t *testing.T) {
	b, _, _ := newTestBoard(t)
	hub := NewEventHub(b)
	defer hub.Close()

	// Never drained: the buffer fills and further broadcasts are dropped
	_, cancel := hub.Register()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			hub.Notify(board.Notification{Key: "k", Type: board.NotifySuccess, Message: "m"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}

func TestEventHub_CloseClosesClientChannels(t *testing.T) {
	b, _, _ := newTestBoard(t)
	hub := NewEventHub(b)

	events, cancel := hub.Register()
	defer cancel()

	hub.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Client channel not closed after hub shutdown")
		}
	}
}

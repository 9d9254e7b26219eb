package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/board"
)

// Event is one message pushed to board event stream subscribers.
type Event struct {
	Name string
	Data any
}

// EventHub fans board changes and notifications out to SSE clients. It
// implements board.Notifier, so store and drag failures surface on the
// stream as notification events.
type EventHub struct {
	board *board.Board

	mu      sync.Mutex
	clients map[int]chan Event
	nextID  int
	closed  bool

	done        chan struct{}
	unsubscribe func()
}

// NewEventHub creates a hub and starts pumping board changes.
func NewEventHub(b *board.Board) *EventHub {
	h := &EventHub{
		board:   b,
		clients: make(map[int]chan Event),
		done:    make(chan struct{}),
	}

	changes, cancel := b.Subscribe()
	h.unsubscribe = cancel
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-changes:
				h.broadcast(Event{Name: "board", Data: b.View()})
			}
		}
	}()

	return h
}

// Notify implements board.Notifier by pushing the notification to every
// connected client.
func (h *EventHub) Notify(n board.Notification) {
	h.broadcast(Event{Name: "notification", Data: n})
}

// NavigateTo implements board.Navigator by pushing a navigate event,
// so clients on the stream can open the finalize form after a deal
// lands on a terminal column.
func (h *EventHub) NavigateTo(resource string, id uuid.UUID, mode board.NavigateMode) {
	h.broadcast(Event{Name: "navigate", Data: map[string]any{
		"resource": resource,
		"id":       id,
		"mode":     mode,
	}})
}

// Register adds a client. The returned cancel must be called when the
// client disconnects.
func (h *EventHub) Register() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.closed {
		close(ch)
	} else {
		h.clients[id] = ch
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.clients[id]; ok {
			delete(h.clients, id)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Close shuts the hub down and disconnects every client.
func (h *EventHub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

// broadcast delivers an event without blocking: a client that cannot keep
// up misses events rather than stalling the board.
func (h *EventHub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

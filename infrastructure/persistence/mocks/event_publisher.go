package mocks

import (
	"sync"

	"aquadash/domain/shared"
)

// RecordingHandler collects every event it receives; subscribe it on
// shared.WildcardEvent to assert on what a use case emitted.
type RecordingHandler struct {
	name   string
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewRecordingHandler(name string) *RecordingHandler {
	return &RecordingHandler{name: name}
}

func (h *RecordingHandler) Handle(event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *RecordingHandler) Name() string { return h.name }

// Events returns a copy of the received events
func (h *RecordingHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.events))
	copy(out, h.events)
	return out
}

// Names event names in arrival order
func (h *RecordingHandler) Names() []string {
	events := h.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

var _ shared.EventHandler = (*RecordingHandler)(nil)

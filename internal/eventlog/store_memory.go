package eventlog

import (
	"context"
	"sync"

	id "authchain/pkg/domain"
)

// InMemoryStore keeps the event log in process memory. It intentionally
// favors clarity over performance; production deployments use the postgres
// store.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.Seq = int64(len(s.events) + 1)
	s.events = append(s.events, *event)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, n)
	copy(out, s.events[:n])
	return out, nil
}

func (s *InMemoryStore) ListByProduct(_ context.Context, code id.ProductCode) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, ev := range s.events {
		if ev.ProductCode == code {
			out = append(out, ev)
		}
	}
	return out, nil
}

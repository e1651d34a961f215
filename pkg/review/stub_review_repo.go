package review

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubRepo is an in-memory Repo implementation for tests. Like the real table
// it rejects a second entry for the same google event id and can be told to
// fail a specific event id.
type StubRepo struct {
	mu         sync.RWMutex
	events     map[string]UnmatchedEvent
	failEvents map[string]error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		events:     make(map[string]UnmatchedEvent),
		failEvents: make(map[string]error),
	}
}

// FailOnEvent makes StoreEvent return err for the given google event id.
func (r *StubRepo) FailOnEvent(googleEventId string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failEvents[googleEventId] = err
}

func (r *StubRepo) StoreEvent(ctx context.Context, event UnmatchedEvent) (UnmatchedEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failEvents[event.GoogleEventId]; ok {
		return UnmatchedEvent{}, err
	}
	for _, existing := range r.events {
		if existing.GoogleEventId == event.GoogleEventId {
			return UnmatchedEvent{}, ErrAlreadyQueued
		}
	}
	if event.Id == "" {
		event.Id = uuid.New().String()
	}
	if event.Status == "" {
		event.Status = StatusPending
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.events[event.Id] = event
	return event, nil
}

func (r *StubRepo) GetEvent(ctx context.Context, id string) (UnmatchedEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return UnmatchedEvent{}, ErrEventNotFound
	}
	return event, nil
}

func (r *StubRepo) GetEventsByStatus(ctx context.Context, status Status) ([]UnmatchedEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]UnmatchedEvent, 0)
	for _, event := range r.events {
		if event.Status == status {
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *StubRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	event.Status = status
	r.events[id] = event
	return nil
}

// AllEvents returns every queued event, for test assertions.
func (r *StubRepo) AllEvents() []UnmatchedEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]UnmatchedEvent, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, event)
	}
	return events
}

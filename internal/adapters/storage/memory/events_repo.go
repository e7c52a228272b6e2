package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"doggo-community/internal/domain/events"
)

// EventRepo guarda eventos en memoria. Para dev y tests.
type EventRepo struct {
	mu   sync.RWMutex
	data map[string]events.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{data: map[string]events.Event{}}
}

func (r *EventRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *EventRepo) Replace(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[e.ID]; !ok {
		return events.ErrNotFound
	}
	r.data[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepo) UpdateParticipants(ctx context.Context, id string, participants []string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.data[id]
	if !ok {
		return events.ErrNotFound
	}
	e.Participants = append([]string(nil), participants...)
	e.UpdatedAt = updatedAt
	r.data[id] = e
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *EventRepo) List(ctx context.Context, f events.ListFilter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, 0, len(r.data))
	for _, e := range r.data {
		if f.CreatorID != "" && e.CreatorID != f.CreatorID {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.From != nil && e.ScheduledAt.Before(*f.From) {
			continue
		}
		out = append(out, cloneEvent(e))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func cloneEvent(e events.Event) events.Event {
	e.Participants = append([]string(nil), e.Participants...)
	return e
}

package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/eventsapi/internal/domain/event"
)

// EventsRepo keeps events in process memory. Ids start at 1 and only grow.
type EventsRepo struct {
	mu     sync.RWMutex
	lastID int64
	items  map[int64]event.Event
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items: make(map[int64]event.Event),
	}
}

func (r *EventsRepo) Save(_ context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	r.lastID++
	e.ID = r.lastID
	r.items[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

func (r *EventsRepo) GetByID(_ context.Context, id int64) (event.Event, error) {
	r.mu.RLock()
	e, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	return e, nil
}

func (r *EventsRepo) Ping(context.Context) error {
	return nil
}

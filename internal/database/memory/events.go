package memory

import (
	"context"
	"sort"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type eventRepository struct {
	s *Store
}

func (r *eventRepository) Create(_ context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *eventRepository) List(_ context.Context, q entity.EventQuery) ([]*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var events []*entity.Event
	for _, e := range r.s.events {
		if !e.IsActive {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		switch q.Filter {
		case entity.EventFilterUpcoming:
			if !e.Date.After(q.Now) {
				continue
			}
		case entity.EventFilterPast:
			if !e.Date.Before(q.Now) {
				continue
			}
		case entity.EventFilterFeatured:
			if !e.IsFeatured {
				continue
			}
		}
		events = append(events, cloneEvent(e))
	}

	sort.Slice(events, func(i, j int) bool {
		if q.Filter == entity.EventFilterPast {
			return events[i].Date.After(events[j].Date)
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (r *eventRepository) Update(_ context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	r.s.events[event.ID] = cloneEvent(event)
	return nil
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type rsvpRepository struct {
	s *Store
}

// The helpers below must be called with the lock held.

func (r *rsvpRepository) active(eventID, email string) *entity.RSVP {
	for _, rsvp := range r.s.rsvps {
		if rsvp.EventID == eventID && rsvp.UserEmail == email && rsvp.Status != entity.RSVPStatusCancelled {
			return rsvp
		}
	}
	return nil
}

func (r *rsvpRepository) countActive(eventID string) int {
	n := 0
	for _, rsvp := range r.s.rsvps {
		if rsvp.EventID == eventID && rsvp.Status.Active() {
			n++
		}
	}
	return n
}

func (r *rsvpRepository) Create(_ context.Context, rsvp *entity.RSVP, guard *entity.CapacityGuard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if guard != nil {
		if _, ok := r.s.events[rsvp.EventID]; !ok {
			return entity.ErrEventNotFound
		}
		if r.countActive(rsvp.EventID) >= guard.Max {
			return entity.ErrEventFull
		}
	}
	if rsvp.Status != entity.RSVPStatusCancelled && r.active(rsvp.EventID, rsvp.UserEmail) != nil {
		return entity.ErrAlreadyReserved
	}
	r.s.rsvps[rsvp.ID] = cloneRSVP(rsvp)
	return nil
}

func (r *rsvpRepository) GetByID(_ context.Context, id string) (*entity.RSVP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rsvp, ok := r.s.rsvps[id]
	if !ok {
		return nil, entity.ErrRSVPNotFound
	}
	return cloneRSVP(rsvp), nil
}

func (r *rsvpRepository) FindActive(_ context.Context, eventID, email string) (*entity.RSVP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if rsvp := r.active(eventID, email); rsvp != nil {
		return cloneRSVP(rsvp), nil
	}
	return nil, nil
}

func (r *rsvpRepository) CountActive(_ context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.countActive(eventID), nil
}

func (r *rsvpRepository) List(_ context.Context, q entity.RSVPQuery) ([]*entity.RSVP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rsvps []*entity.RSVP
	for _, rsvp := range r.s.rsvps {
		if q.EventID != "" && rsvp.EventID != q.EventID {
			continue
		}
		if q.UserEmail != "" && rsvp.UserEmail != q.UserEmail {
			continue
		}
		if q.Status != "" && rsvp.Status != q.Status {
			continue
		}
		rsvps = append(rsvps, cloneRSVP(rsvp))
	}
	sort.Slice(rsvps, func(i, j int) bool {
		return rsvps[i].SubmittedAt.After(rsvps[j].SubmittedAt)
	})
	return rsvps, nil
}

func (r *rsvpRepository) UpdateStatus(_ context.Context, id string, status entity.RSVPStatus, at time.Time) (*entity.RSVP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rsvp, ok := r.s.rsvps[id]
	if !ok {
		return nil, entity.ErrRSVPNotFound
	}
	if status != entity.RSVPStatusCancelled && rsvp.Status == entity.RSVPStatusCancelled {
		if other := r.active(rsvp.EventID, rsvp.UserEmail); other != nil {
			return nil, entity.ErrAlreadyReserved
		}
	}
	rsvp.Status = status
	rsvp.UpdatedAt = at
	return cloneRSVP(rsvp), nil
}

func (r *rsvpRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rsvps[id]; !ok {
		return entity.ErrRSVPNotFound
	}
	delete(r.s.rsvps, id)
	return nil
}

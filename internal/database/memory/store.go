// Package memory keeps users, events and RSVPs in process memory. It backs
// tests and the "memory" database driver.
package memory

import (
	"sync"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// Store holds all collections behind one lock, so an RSVP insert with a
// capacity guard sees a consistent count.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*entity.User // by id
	events map[string]*entity.Event
	rsvps  map[string]*entity.RSVP
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*entity.User),
		events: make(map[string]*entity.Event),
		rsvps:  make(map[string]*entity.RSVP),
	}
}

func (s *Store) Users() database.UserRepository   { return &userRepository{s: s} }
func (s *Store) Events() database.EventRepository { return &eventRepository{s: s} }
func (s *Store) RSVPs() database.RSVPRepository   { return &rsvpRepository{s: s} }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Skills = append([]string(nil), u.Skills...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func cloneEvent(e *entity.Event) *entity.Event {
	c := *e
	c.ImageURLs = append([]string(nil), e.ImageURLs...)
	c.Tags = append([]string(nil), e.Tags...)
	if e.MaxAttendees != nil {
		m := *e.MaxAttendees
		c.MaxAttendees = &m
	}
	if e.Speaker != nil {
		sp := *e.Speaker
		c.Speaker = &sp
	}
	c.CurrentAttendees = 0
	return &c
}

func cloneRSVP(r *entity.RSVP) *entity.RSVP {
	c := *r
	return &c
}

package entity

import (
	"time"
)

type Speaker struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type Event struct {
	ID               string    `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	ShortDescription string    `json:"shortDescription" db:"short_description"`
	Date             time.Time `json:"date" db:"date"`
	Time             string    `json:"time" db:"time"`
	Location         string    `json:"location" db:"location"`
	ImageURLs        []string  `json:"imageUrls" db:"image_urls"`
	FormURL          string    `json:"formUrl" db:"form_url"`
	Category         string    `json:"category" db:"category"`
	MaxAttendees     *int      `json:"maxAttendees" db:"max_attendees"`
	Tags             []string  `json:"tags" db:"tags"`
	Speaker          *Speaker  `json:"speaker" db:"speaker"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	IsFeatured       bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
	CreatedBy        string    `json:"createdBy" db:"created_by"`

	// CurrentAttendees is derived from RSVPs on every read and never stored.
	CurrentAttendees int `json:"currentAttendees" db:"-"`
}

// IsUpcoming reports whether the event starts strictly after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

type EventFilter string

const (
	EventFilterAll      EventFilter = ""
	EventFilterUpcoming EventFilter = "upcoming"
	EventFilterPast     EventFilter = "past"
	EventFilterFeatured EventFilter = "featured"
)

// EventQuery is the predicate the event store filters active events by.
type EventQuery struct {
	Filter   EventFilter
	Category string
	Now      time.Time
}

package entity

import "time"

type RSVPStatus string

const (
	RSVPStatusPending   RSVPStatus = "PENDING"
	RSVPStatusConfirmed RSVPStatus = "CONFIRMED"
	RSVPStatusCancelled RSVPStatus = "CANCELLED"
)

const MaxNotesLength = 500

// ActiveRSVPStatuses are the statuses that hold a seat.
var ActiveRSVPStatuses = []RSVPStatus{RSVPStatusPending, RSVPStatusConfirmed}

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPStatusPending, RSVPStatusConfirmed, RSVPStatusCancelled:
		return true
	}
	return false
}

func (s RSVPStatus) Active() bool {
	return s == RSVPStatusPending || s == RSVPStatusConfirmed
}

type RSVP struct {
	ID          string     `json:"id" db:"id"`
	EventID     string     `json:"eventId" db:"event_id"`
	UserEmail   string     `json:"userEmail" db:"user_email"`
	UserName    string     `json:"userName" db:"user_name"`
	Status      RSVPStatus `json:"status" db:"status"`
	SubmittedAt time.Time  `json:"submittedAt" db:"submitted_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	Notes       string     `json:"notes" db:"notes"`
}

// CapacityGuard asks the store to refuse an insert once the event already
// holds Max active RSVPs, checked atomically with the insert.
type CapacityGuard struct {
	Max int
}

type NotificationType string

const (
	NotificationRSVPCreated       NotificationType = "rsvp_created"
	NotificationRSVPStatusChanged NotificationType = "rsvp_status_changed"
	NotificationRSVPDeleted       NotificationType = "rsvp_deleted"
)

// RSVPNotification is published to the message broker on RSVP lifecycle changes.
type RSVPNotification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	RSVP       RSVP             `json:"rsvp"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// RSVPQuery filters RSVP listings; zero fields are not applied.
type RSVPQuery struct {
	EventID   string
	UserEmail string
	Status    RSVPStatus
}

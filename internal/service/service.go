package service

import (
	"context"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// AuthService issues credentials for new and returning users.
type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
}

type UserService interface {
	GetCurrentUser(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, email string, upd *entity.ProfileUpdate) (*entity.User, error)
	UpdateLastVisitedPage(ctx context.Context, email, page string) (*entity.User, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest, createdBy string) (*entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	ListEvents(ctx context.Context, filter entity.EventFilter, category string) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// RSVPService enforces the reservation rules: one active RSVP per event and
// email, RSVPs only for active upcoming events, and the attendee limit.
type RSVPService interface {
	CreateRSVP(ctx context.Context, req *CreateRSVPRequest) (*entity.RSVP, error)
	UpdateStatus(ctx context.Context, id string, status entity.RSVPStatus) (*entity.RSVP, error)
	DeleteRSVP(ctx context.Context, id string) error
	GetRSVPs(ctx context.Context, q entity.RSVPQuery) ([]*entity.RSVP, error)
	AttendeeCount(ctx context.Context, eventID string) (int, error)
}

package database

import (
	"context"
	"time"

	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

type UserRepository interface {
	// Create fails with entity.ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateLastLogin(ctx context.Context, email string, at time.Time) (*entity.User, error)

	// LookupCredentials returns what is needed to authenticate an account.
	LookupCredentials(ctx context.Context, email string) (*entity.Credentials, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	// GetByID returns inactive events too; callers decide visibility.
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	// List returns active events matching q, ordered by date.
	List(ctx context.Context, q entity.EventQuery) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
}

type RSVPRepository interface {
	// Create inserts rsvp. It fails with entity.ErrAlreadyReserved when an
	// active RSVP for the same event and email exists. With a non-nil guard the
	// active count is rechecked under a per-event lock and the insert fails
	// with entity.ErrEventFull once guard.Max is reached.
	Create(ctx context.Context, rsvp *entity.RSVP, guard *entity.CapacityGuard) error
	GetByID(ctx context.Context, id string) (*entity.RSVP, error)
	// FindActive returns nil, nil when no active RSVP exists.
	FindActive(ctx context.Context, eventID, email string) (*entity.RSVP, error)
	CountActive(ctx context.Context, eventID string) (int, error)
	List(ctx context.Context, q entity.RSVPQuery) ([]*entity.RSVP, error)
	UpdateStatus(ctx context.Context, id string, status entity.RSVPStatus, at time.Time) (*entity.RSVP, error)
	Delete(ctx context.Context, id string) error
}

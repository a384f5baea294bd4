package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
	"github.com/Brajesh31/TEC-DEV-CL/internal/notify"
)

// CreateRSVPRequest is the RSVP to create; the handler fills UserEmail from
// the caller's identity.
type CreateRSVPRequest struct {
	EventID   string `json:"eventId" binding:"required"`
	UserEmail string `json:"userEmail" binding:"omitempty,email"`
	UserName  string `json:"userName" binding:"required"`
	Notes     string `json:"notes"`
}

type RSVPServiceConfig struct {
	// AtomicCapacity makes the store recheck the attendee limit together
	// with the insert. Without it two concurrent requests for the last seat
	// can both succeed.
	AtomicCapacity bool
	Now            func() time.Time
}

type rsvpService struct {
	rsvpRepo  database.RSVPRepository
	eventRepo database.EventRepository
	publisher notify.Publisher
	atomic    bool
	now       func() time.Time
}

func NewRSVPService(
	rsvpRepo database.RSVPRepository,
	eventRepo database.EventRepository,
	publisher notify.Publisher,
	cfg RSVPServiceConfig,
) RSVPService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &rsvpService{
		rsvpRepo:  rsvpRepo,
		eventRepo: eventRepo,
		publisher: publisher,
		atomic:    cfg.AtomicCapacity,
		now:       now,
	}
}

func (s *rsvpService) CreateRSVP(ctx context.Context, req *CreateRSVPRequest) (*entity.RSVP, error) {
	email := entity.NormalizeEmail(req.UserEmail)
	name := strings.TrimSpace(req.UserName)
	switch {
	case req.EventID == "":
		return nil, entity.NewValidationError("", "Event ID is required")
	case email == "":
		return nil, entity.NewValidationError("", "Email is required")
	case name == "":
		return nil, entity.NewValidationError("", "Name is required")
	case utf8.RuneCountInString(req.Notes) > entity.MaxNotesLength:
		return nil, entity.NewValidationError("", "Notes cannot exceed 500 characters")
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, entity.ErrEventNotFound
	}

	now := s.now()
	if !event.IsUpcoming(now) {
		return nil, entity.ErrEventNotUpcoming
	}

	existing, err := s.rsvpRepo.FindActive(ctx, event.ID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rsvp: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrAlreadyReserved
	}

	var guard *entity.CapacityGuard
	if event.MaxAttendees != nil {
		count, err := s.rsvpRepo.CountActive(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count attendees: %w", err)
		}
		if count >= *event.MaxAttendees {
			return nil, entity.ErrEventFull
		}
		if s.atomic {
			guard = &entity.CapacityGuard{Max: *event.MaxAttendees}
		}
	}

	rsvp := &entity.RSVP{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		UserEmail:   email,
		UserName:    name,
		Status:      entity.RSVPStatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
		Notes:       req.Notes,
	}
	if err := s.rsvpRepo.Create(ctx, rsvp, guard); err != nil {
		if errors.Is(err, entity.ErrAlreadyReserved) || errors.Is(err, entity.ErrEventFull) || errors.Is(err, entity.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create rsvp: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"rsvp_id":  rsvp.ID,
		"event_id": rsvp.EventID,
		"email":    rsvp.UserEmail,
	}).Info("RSVP created")

	s.publish(ctx, entity.NotificationRSVPCreated, rsvp)
	return rsvp, nil
}

func (s *rsvpService) UpdateStatus(ctx context.Context, id string, status entity.RSVPStatus) (*entity.RSVP, error) {
	if _, err := s.rsvpRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	rsvp, err := s.rsvpRepo.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"rsvp_id": rsvp.ID,
		"status":  rsvp.Status,
	}).Info("RSVP status updated")

	s.publish(ctx, entity.NotificationRSVPStatusChanged, rsvp)
	return rsvp, nil
}

func (s *rsvpService) DeleteRSVP(ctx context.Context, id string) error {
	rsvp, err := s.rsvpRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rsvpRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithField("rsvp_id", id).Info("RSVP deleted")
	s.publish(ctx, entity.NotificationRSVPDeleted, rsvp)
	return nil
}

func (s *rsvpService) GetRSVPs(ctx context.Context, q entity.RSVPQuery) ([]*entity.RSVP, error) {
	q.UserEmail = entity.NormalizeEmail(q.UserEmail)
	if q.Status != "" && !q.Status.Valid() {
		return nil, entity.ErrInvalidStatus
	}
	rsvps, err := s.rsvpRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []*entity.RSVP{}
	}
	return rsvps, nil
}

// AttendeeCount counts the PENDING and CONFIRMED RSVPs of an event. It is
// recomputed on every call.
func (s *rsvpService) AttendeeCount(ctx context.Context, eventID string) (int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return 0, err
	}
	return s.rsvpRepo.CountActive(ctx, eventID)
}

func (s *rsvpService) publish(ctx context.Context, typ entity.NotificationType, rsvp *entity.RSVP) {
	n := entity.RSVPNotification{
		ID:         uuid.NewString(),
		Type:       typ,
		RSVP:       *rsvp,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"rsvp_id": rsvp.ID,
			"type":    typ,
		}).Error("failed to publish rsvp notification")
	}
}

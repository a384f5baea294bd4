package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Brajesh31/TEC-DEV-CL/internal/database"
	"github.com/Brajesh31/TEC-DEV-CL/internal/entity"
)

// CreateEventRequest represents the data needed to create an event
type CreateEventRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	ShortDescription string          `json:"shortDescription"`
	Date             entity.DateTime `json:"date"`
	Time             string          `json:"time" binding:"required"`
	Location         string          `json:"location" binding:"required"`
	ImageURLs        []string        `json:"imageUrls"`
	FormURL          string          `json:"formUrl" binding:"required"`
	Category         string          `json:"category" binding:"required"`
	MaxAttendees     *int            `json:"maxAttendees" binding:"omitempty,min=1"`
	Tags             []string        `json:"tags"`
	Speaker          *entity.Speaker `json:"speaker"`
	IsFeatured       bool            `json:"isFeatured"`
}

// UpdateEventRequest carries the fields to overwrite; nil fields are kept.
type UpdateEventRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"shortDescription"`
	Date             *entity.DateTime `json:"date"`
	Time             *string          `json:"time"`
	Location         *string          `json:"location"`
	ImageURLs        *[]string        `json:"imageUrls"`
	FormURL          *string          `json:"formUrl"`
	Category         *string          `json:"category"`
	MaxAttendees     *int             `json:"maxAttendees" binding:"omitempty,min=1"`
	Tags             *[]string        `json:"tags"`
	Speaker          *entity.Speaker  `json:"speaker"`
	IsFeatured       *bool            `json:"isFeatured"`
}

func (r *CreateEventRequest) validate(now time.Time) error {
	required := []struct{ value, message string }{
		{r.Title, "Title is required"},
		{r.Description, "Description is required"},
		{r.Time, "Time is required"},
		{r.Location, "Location is required"},
		{r.FormURL, "Form URL is required"},
		{r.Category, "Category is required"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return entity.NewValidationError("", f.message)
		}
	}
	if r.Date.IsZero() {
		return entity.NewValidationError("", "Event date is required")
	}
	if !r.Date.After(now) {
		return entity.ErrEventDatePast
	}
	if r.MaxAttendees != nil && *r.MaxAttendees < 1 {
		return entity.NewValidationError("", "Max attendees must be at least 1")
	}
	return nil
}

type eventService struct {
	eventRepo database.EventRepository
	rsvpRepo  database.RSVPRepository
	now       func() time.Time
}

func NewEventService(eventRepo database.EventRepository, rsvpRepo database.RSVPRepository, now func() time.Time) EventService {
	if now == nil {
		now = time.Now
	}
	return &eventService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		now:       now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest, createdBy string) (*entity.Event, error) {
	now := s.now()
	if err := req.validate(now); err != nil {
		return nil, err
	}

	event := &entity.Event{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Date:             req.Date.Time,
		Time:             req.Time,
		Location:         req.Location,
		ImageURLs:        req.ImageURLs,
		FormURL:          req.FormURL,
		Category:         req.Category,
		MaxAttendees:     req.MaxAttendees,
		Tags:             req.Tags,
		Speaker:          req.Speaker,
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        createdBy,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"title":      event.Title,
		"created_by": createdBy,
	}).Info("Event created")
	return event, nil
}

// activeEvent returns the event with id unless it is missing or soft-deleted.
func (s *eventService) activeEvent(ctx context.Context, id string) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, entity.ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) withAttendees(ctx context.Context, event *entity.Event) error {
	count, err := s.rsvpRepo.CountActive(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to count attendees of event %s: %w", event.ID, err)
	}
	event.CurrentAttendees = count
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	event, err := s.activeEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withAttendees(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns active events. A recognised filter takes precedence
// over category.
func (s *eventService) ListEvents(ctx context.Context, filter entity.EventFilter, category string) ([]*entity.Event, error) {
	q := entity.EventQuery{Now: s.now()}
	switch filter {
	case entity.EventFilterUpcoming, entity.EventFilterPast, entity.EventFilterFeatured:
		q.Filter = filter
	default:
		q.Category = category
	}

	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		if err := s.withAttendees(ctx, event); err != nil {
			return nil, err
		}
	}
	if events == nil {
		events = []*entity.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*entity.Event, error) {
	event, err := s.activeEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.ShortDescription != nil {
		event.ShortDescription = *req.ShortDescription
	}
	if req.Date != nil {
		if !req.Date.After(now) {
			return nil, entity.ErrEventDatePast
		}
		event.Date = req.Date.Time
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.ImageURLs != nil {
		event.ImageURLs = *req.ImageURLs
	}
	if req.FormURL != nil {
		event.FormURL = *req.FormURL
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < 1 {
			return nil, entity.NewValidationError("", "Max attendees must be at least 1")
		}
		event.MaxAttendees = req.MaxAttendees
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}
	if req.Speaker != nil {
		event.Speaker = req.Speaker
	}
	if req.IsFeatured != nil {
		event.IsFeatured = *req.IsFeatured
	}
	event.UpdatedAt = now

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	if err := s.withAttendees(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent only deactivates the event; its RSVPs are kept.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.activeEvent(ctx, id)
	if err != nil {
		return err
	}
	event.IsActive = false
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}

	logrus.WithField("event_id", id).Info("Event deactivated")
	return nil
}

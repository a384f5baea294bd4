package entity

import (
	"errors"
	"fmt"
)

var (
	// Event errors
	ErrEventNotFound    = errors.New("Event not found")
	ErrEventNotUpcoming = errors.New("Cannot RSVP to past events")
	ErrEventFull        = errors.New("Event is full")
	ErrEventDatePast    = errors.New("Event date must be in the future")

	// RSVP errors
	ErrRSVPNotFound    = errors.New("RSVP not found")
	ErrAlreadyReserved = errors.New("You have already RSVPed to this event")
	ErrInvalidStatus   = errors.New("Invalid status")

	// User errors
	ErrUserNotFound       = errors.New("User not found")
	ErrUserAlreadyExists  = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var notFoundErrors = []error{ErrEventNotFound, ErrRSVPNotFound, ErrUserNotFound}

var conflictErrors = []error{ErrAlreadyReserved, ErrEventFull, ErrUserAlreadyExists}

var validationErrors = []error{ErrEventNotUpcoming, ErrEventDatePast, ErrInvalidStatus, ErrInvalidCredentials}

// IsNotFound reports whether err names an unknown id.
func IsNotFound(err error) bool {
	return isAny(err, notFoundErrors)
}

// IsConflict reports whether err is a uniqueness or capacity violation.
func IsConflict(err error) bool {
	return isAny(err, conflictErrors)
}

// IsValidation reports whether err was caused by malformed or rejected input.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return isAny(err, validationErrors)
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package auth

import "errors"

// AuthenticationError is returned when a request carries no usable credential.
type AuthenticationError struct {
	msg string
}

func (e *AuthenticationError) Error() string { return e.msg }

// AuthorizationError is returned when the resolved principal may not use a route.
type AuthorizationError struct {
	msg string
}

func (e *AuthorizationError) Error() string { return e.msg }

var (
	ErrMissingCredential = &AuthenticationError{msg: "Authentication required"}
	ErrInvalidCredential = &AuthenticationError{msg: "Invalid token"}
	ErrExpiredCredential = &AuthenticationError{msg: "Token has expired"}
	ErrInvalidAPIKey     = &AuthenticationError{msg: "Invalid or missing API key"}

	ErrForbidden = &AuthorizationError{msg: "Access denied"}
)

func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

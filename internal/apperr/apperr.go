// Package apperr defines the error taxonomy shared by handlers and services.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error into one of the closed set of failure categories
// the API reports to clients.
type Kind int

const (
	// KindInternal covers persistence and collaborator failures.
	KindInternal Kind = iota
	// KindAuthentication means a bad or missing credential.
	KindAuthentication
	// KindValidation means the request body or parameters were malformed.
	KindValidation
	// KindNotFound means a referenced user or message does not exist.
	KindNotFound
	// KindAuthorization means the caller acted outside its role scope.
	KindAuthorization
)

// Error carries a kind plus a human-readable message safe to return to
// clients. Internal detail (the wrapped error) never leaves the server.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Authentication returns a bad-credential error.
func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// Validation returns a malformed-input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound returns a missing-entity error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Authorization returns a role-scope violation error.
func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// Internal wraps a collaborator failure with a client-safe message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ClientMessage returns the message safe to show to a caller. Unclassified
// errors collapse to a generic string so stack detail never leaks.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to the HTTP status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

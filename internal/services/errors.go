package services

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindPersistence       ErrorKind = "persistence"
)

// ServiceError is a typed error with an HTTP status code.
// Message is safe to show to clients; Err is the underlying cause and is only logged.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func NewInvalidTransitionError(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidTransition, StatusCode: http.StatusBadRequest, Message: message}
}

func NewPersistenceError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindPersistence, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// AsServiceError returns err as a *ServiceError, classifying anything else as a persistence failure.
func AsServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewPersistenceError("Internal server error", err)
}

// IsKind reports whether err carries a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr) && serviceErr.Kind == kind
}

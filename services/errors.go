package services

import "errors"

// Error taxonomy surfaced by the services. The route layer maps these to
// HTTP status codes; nothing is retried or recovered locally.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("property is already booked for these dates")
	ErrUnauthorized    = errors.New("actor does not own this resource")
	ErrValidation      = errors.New("invalid input")
	ErrExternalService = errors.New("external service error")
)

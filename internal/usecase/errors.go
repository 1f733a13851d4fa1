package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNoSession             = errors.New("no active session")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

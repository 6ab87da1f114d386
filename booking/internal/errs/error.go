package errs

import (
	"errors"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUserName             = errors.New("username is required")
	ErrSeatUnavailable      = errors.New("seat unavailable")
	ErrBookingAlreadyActive = errors.New("booking already active")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrExceedsMaxBreak      = errors.New("break exceeds maximum")
)

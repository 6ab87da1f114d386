package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPermissionDenied     = errors.New("location permission denied")
	ErrLocationUnavailable  = errors.New("location unavailable")
	ErrNotInRange           = errors.New("not in range")
	ErrWindowExpired        = errors.New("check-in window expired")
	ErrSeatUnavailable      = errors.New("seat unavailable")
	ErrBookingAlreadyActive = errors.New("booking already active")
	ErrNoSuchBooking        = errors.New("no such booking")
	ErrNetworkFailure       = errors.New("network failure")

	ErrNoActiveLibrary   = errors.New("no active library")
	ErrAlreadyCheckedIn  = errors.New("already checked in")
	ErrNotActive         = errors.New("booking is not active")
	ErrExceedsMaxBreak   = errors.New("break exceeds maximum")
	ErrNotOnBreak        = errors.New("booking is not on break")
	ErrBreakNotElapsed   = errors.New("break has not elapsed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUserName          = errors.New("username is required")
	ErrLibraryNotFound   = errors.New("library not found")
)

// RangeError is a NotInRange failure with the distance the user was at.
type RangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %.0fm from library, radius %.0fm", ErrNotInRange, e.DistanceMeters, e.RadiusMeters)
}

func (e *RangeError) Unwrap() error {
	return ErrNotInRange
}

// Retryable reports whether err is transient and the caller may try again.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetworkFailure) || errors.Is(err, ErrLocationUnavailable)
}

package lifecycle

import (
	"context"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=deps.go -destination=mocks/mock.go

// BookingAPI is the server of record scoped to one user. Implementations
// return errors from the errs package.
type BookingAPI interface {
	CreateBooking(ctx context.Context, seatID string, durationMinutes int, libraryID string) (model.CreatedBooking, error)
	CheckIn(ctx context.Context, bookingID, seatID string) error
	Cancel(ctx context.Context, bookingID, seatID string) error
	Complete(ctx context.Context, bookingID, seatID string) error
	StartBreak(ctx context.Context, bookingID string, minutes int) error
	EndBreak(ctx context.Context, bookingID string) error
}

// LocationSource is the read side of the location tracker.
type LocationSource interface {
	Reading() model.LocationReading
	Target() (model.Library, bool)
}

// Presence re-verifies the device position when a break elapses.
type Presence interface {
	InRange(ctx context.Context, lib model.Library) (bool, error)
}

// SeatBoard is the shared seat cache the machine writes optimistically.
type SeatBoard interface {
	MarkOptimistic(libraryID, seatID string, status model.SeatStatus)
	SeatStatus(libraryID, seatID string) (model.SeatStatus, bool)
}

// Syncer reports timer-driven outcomes to the server in the background.
// It must not block.
type Syncer interface {
	Sync(o model.Outcome)
}

package model

import (
	"time"
)

type Status string

const (
	StatusNone           Status = "none"
	StatusPendingCheckin Status = "pending_checkin"
	StatusActive         Status = "active"
	StatusOnBreak        Status = "on_break"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
	StatusNoShow         Status = "no_show"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired, StatusNoShow:
		return true
	}
	return false
}

// IsHeld reports whether s counts as the user's single non-terminal booking.
func (s Status) IsHeld() bool {
	switch s {
	case StatusPendingCheckin, StatusActive, StatusOnBreak:
		return true
	}
	return false
}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatOccupied  SeatStatus = "occupied"
)

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatReserved, SeatOccupied:
		return true
	}
	return false
}

type LocationStatus string

const (
	LocationUnknown    LocationStatus = "unknown"
	LocationInRange    LocationStatus = "in_range"
	LocationOutOfRange LocationStatus = "out_of_range"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Library struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radiusMeters"`
	OpensAt      string     `json:"opensAt"`
	ClosesAt     string     `json:"closesAt"`
}

type Seat struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	LibraryID string     `json:"libraryId"`
	FloorID   string     `json:"floorId"`
	RoomID    string     `json:"roomId"`
	Status    SeatStatus `json:"status"`
	Amenities []string   `json:"amenities"`
}

type Booking struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	SeatID            string     `json:"seatId"`
	LibraryID         string     `json:"libraryId"`
	Status            Status     `json:"status"`
	StartTime         time.Time  `json:"startTime"`
	DurationMinutes   int        `json:"duration"`
	CheckedIn         bool       `json:"checkedIn"`
	VerificationToken string     `json:"verificationToken"`
	BreakStart        *time.Time `json:"breakStart"`
	BreakMinutes      *int       `json:"breakDuration"`
}

func (b Booking) SessionDeadline() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// BreakDeadline is zero when no break is recorded.
func (b Booking) BreakDeadline() time.Time {
	if b.BreakStart == nil || b.BreakMinutes == nil {
		return time.Time{}
	}
	return b.BreakStart.Add(time.Duration(*b.BreakMinutes) * time.Minute)
}

// CreatedBooking is what the server of record returns for a new booking.
type CreatedBooking struct {
	ID                string    `json:"id"`
	SeatID            string    `json:"seatId"`
	StartTime         time.Time `json:"startTime"`
	VerificationToken string    `json:"verificationToken"`
}

type SeatEventType string

const (
	SeatInsert SeatEventType = "insert"
	SeatUpdate SeatEventType = "update"
	SeatDelete SeatEventType = "delete"
)

type SeatEvent struct {
	Type SeatEventType
	Seat Seat
	At   time.Time
}

// LocationReading is one tracker evaluation against a library geofence.
type LocationReading struct {
	Status            LocationStatus `json:"status"`
	DistanceMeters    *float64       `json:"distanceMeters"`
	RadiusMeters      float64        `json:"radiusMeters,omitempty"`
	LibraryID         string         `json:"libraryId,omitempty"`
	PermissionGranted bool           `json:"permissionGranted"`
}

// TimerKind names one of the independently owned lifecycle countdowns.
type TimerKind string

const (
	TimerCheckin TimerKind = "checkin"
	TimerSession TimerKind = "session"
	TimerBreak   TimerKind = "break"
)

// BookingView is the booking plus countdowns derived at At.
type BookingView struct {
	Status               Status      `json:"status"`
	Booking              *Booking    `json:"booking"`
	CheckinTimeRemaining *int        `json:"checkinTimeRemaining"`
	BreakTimeRemaining   *int        `json:"breakTimeRemaining"`
	SecondsLeft          *int        `json:"secondsLeft"`
	ActiveTimers         []TimerKind `json:"activeTimers"`
	At                   time.Time   `json:"at"`
}

// Outcome is a timer-driven transition the server has not confirmed yet.
// Status is no_show, expired, completed, or active for a break that ended
// with the user back in range.
type Outcome struct {
	UserID    string
	BookingID string
	SeatID    string
	Status    Status
}

// Selection is the outcome of choosing a library: its geofence reading and seat map.
type Selection struct {
	Library  Library         `json:"library"`
	Location LocationReading `json:"location"`
	Seats    []Seat          `json:"seats"`
}

type CreateBookingRequest struct {
	SeatID    string `json:"seatId" validate:"required"`
	Duration  int    `json:"duration" validate:"required,min=1,max=720"`
	LibraryID string `json:"libraryId"`
}

type LocationReport struct {
	Lat               *float64 `json:"lat" validate:"required,latitude"`
	Lon               *float64 `json:"lon" validate:"required,longitude"`
	PermissionGranted bool     `json:"permissionGranted"`
}

type BreakRequest struct {
	Duration int `json:"duration" validate:"required,min=1"`
}

// BreakCheckRequest carries the caller's presence result. Without it the
// server re-verifies the last device fix.
type BreakCheckRequest struct {
	InRange *bool `json:"inRange"`
}

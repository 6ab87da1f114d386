package model

import (
	"time"
)

type Status string

const (
	StatusPendingCheckin Status = "pending_checkin"
	StatusActive         Status = "active"
	StatusOnBreak        Status = "on_break"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
	StatusNoShow         Status = "no_show"
)

var NonTerminal = []Status{StatusPendingCheckin, StatusActive, StatusOnBreak}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatOccupied  SeatStatus = "occupied"
)

type Library struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Lat          float64 `json:"lat" db:"lat"`
	Lon          float64 `json:"lon" db:"lon"`
	RadiusMeters float64 `json:"radiusMeters" db:"radius_meters"`
	OpensAt      string  `json:"opensAt" db:"opens_at"`
	ClosesAt     string  `json:"closesAt" db:"closes_at"`
}

type Seat struct {
	ID        string     `json:"id" db:"id"`
	Label     string     `json:"label" db:"label"`
	LibraryID string     `json:"libraryId" db:"library_id"`
	FloorID   string     `json:"floorId" db:"floor_id"`
	RoomID    string     `json:"roomId" db:"room_id"`
	Status    SeatStatus `json:"status" db:"status"`
	Amenities []string   `json:"amenities" db:"amenities"`
}

type Booking struct {
	ID                string     `json:"id" db:"id"`
	UserName          string     `json:"userId" db:"user_name"`
	SeatID            string     `json:"seatId" db:"seat_id"`
	LibraryID         string     `json:"libraryId" db:"library_id"`
	Status            Status     `json:"status" db:"status"`
	StartTime         time.Time  `json:"startTime" db:"start_time"`
	Duration          int        `json:"duration" db:"duration_minutes"`
	CheckedIn         bool       `json:"checkedIn" db:"checked_in"`
	VerificationToken string     `json:"verificationToken" db:"verification_token"`
	BreakStart        *time.Time `json:"breakStart" db:"break_start"`
	BreakDuration     *int       `json:"breakDuration" db:"break_minutes"`
}

type CreateBookingRequest struct {
	SeatID    string `json:"seatId" validate:"required"`
	Duration  int    `json:"duration" validate:"required,min=1,max=720"`
	LibraryID string `json:"libraryId" validate:"required"`
	UserName  string `json:"-" validate:"required"`
}

type CreateBookingResponse struct {
	ID                string    `json:"id"`
	SeatID            string    `json:"seatId"`
	StartTime         time.Time `json:"startTime"`
	VerificationToken string    `json:"verificationToken"`
}

type SeatRequest struct {
	SeatID string `json:"seatId"`
}

type BreakRequest struct {
	Duration int `json:"duration" validate:"required,min=1"`
}

type ReleaseRequest struct {
	SeatID string `json:"seatId"`
	Status Status `json:"status" validate:"required,oneof=no_show expired"`
}

// Transition describes a guarded status change of one booking.
type Transition struct {
	BookingID string
	UserName  string
	SeatID    string
	From      []Status
	To        Status
	// SeatStatus is written to the booked seat in the same transaction when set.
	SeatStatus   SeatStatus
	CheckedIn    bool
	BreakStart   *time.Time
	BreakMinutes *int
	ClearBreak   bool
}

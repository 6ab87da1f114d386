package handler

import (
	"context"

	"github.com/Astemirdum/study-seats/session/internal/model"
	"github.com/Astemirdum/study-seats/session/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ SessionService = (*service.Service)(nil)

type SessionService interface {
	SelectLibrary(ctx context.Context, userID, libraryID string) (model.Selection, error)
	Seats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error)
	ReportLocation(ctx context.Context, userID string, pos model.Coordinate, permissionGranted bool) (model.LocationReading, error)
	RefreshLocation(ctx context.Context, userID string) (model.LocationReading, error)

	CreateBooking(ctx context.Context, userID string, req model.CreateBookingRequest) (model.BookingView, error)
	Current(ctx context.Context, userID string) (model.BookingView, error)
	VerificationQR(ctx context.Context, userID string) ([]byte, error)
	CheckIn(ctx context.Context, userID, bookingID string) (model.BookingView, error)
	Cancel(ctx context.Context, userID, bookingID string) (model.BookingView, error)
	Complete(ctx context.Context, userID, bookingID string) (model.BookingView, error)
	StartBreak(ctx context.Context, userID string, minutes int) (model.BookingView, error)
	EndBreak(ctx context.Context, userID string) (model.BookingView, error)
	CheckBreak(ctx context.Context, userID string, inRange *bool) (model.BookingView, error)
}

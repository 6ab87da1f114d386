package handler

import (
	"context"

	"github.com/Astemirdum/study-seats/booking/internal/model"
	"github.com/Astemirdum/study-seats/booking/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookingService interface {
	GetLibrary(ctx context.Context, libraryID string) (model.Library, error)
	ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (model.CreateBookingResponse, error)
	GetActiveBooking(ctx context.Context, userName string) (model.Booking, error)
	CheckIn(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error)
	Cancel(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error)
	Complete(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error)
	StartBreak(ctx context.Context, userName, bookingID string, minutes int) (model.Booking, error)
	EndBreak(ctx context.Context, userName, bookingID string) (model.Booking, error)
	Release(ctx context.Context, userName, bookingID string, req model.ReleaseRequest) (model.Booking, error)
}

var _ BookingService = (*service.Service)(nil)

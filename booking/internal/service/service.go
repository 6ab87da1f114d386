package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/booking/internal/errs"
	"github.com/Astemirdum/study-seats/booking/internal/model"
	"github.com/Astemirdum/study-seats/booking/internal/repository"
	"github.com/Astemirdum/study-seats/pkg/kafka"
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	publisher SeatPublisher
	maxBreak  int
	now       func() time.Time
}

func NewService(repo repository.Repository, publisher SeatPublisher, maxBreakMinutes int, log *zap.Logger) *Service {
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		publisher: publisher,
		maxBreak:  maxBreakMinutes,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetLibrary(ctx context.Context, libraryID string) (model.Library, error) {
	return s.repo.GetLibrary(ctx, libraryID)
}

func (s *Service) ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error) {
	return s.repo.ListSeats(ctx, libraryID, floorID)
}

func (s *Service) GetActiveBooking(ctx context.Context, userName string) (model.Booking, error) {
	return s.repo.GetActiveBooking(ctx, userName)
}

func (s *Service) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (model.CreateBookingResponse, error) {
	b := model.Booking{
		ID:                uuid.NewString(),
		UserName:          req.UserName,
		SeatID:            req.SeatID,
		LibraryID:         req.LibraryID,
		Status:            model.StatusPendingCheckin,
		StartTime:         s.now(),
		Duration:          req.Duration,
		VerificationToken: uuid.NewString(),
	}
	created, seat, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return model.CreateBookingResponse{}, err
	}
	s.publish(ctx, &seat)

	s.log.Info("booking created",
		zap.String("id", created.ID),
		zap.String("user", created.UserName),
		zap.String("seat", created.SeatID),
		zap.Int("duration", created.Duration))
	return model.CreateBookingResponse{
		ID:                created.ID,
		SeatID:            created.SeatID,
		StartTime:         created.StartTime,
		VerificationToken: created.VerificationToken,
	}, nil
}

func (s *Service) CheckIn(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error) {
	return s.transition(ctx, model.Transition{
		BookingID:  bookingID,
		UserName:   userName,
		SeatID:     seatID,
		From:       []model.Status{model.StatusPendingCheckin},
		To:         model.StatusActive,
		SeatStatus: model.SeatOccupied,
		CheckedIn:  true,
	})
}

func (s *Service) Cancel(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error) {
	return s.transition(ctx, model.Transition{
		BookingID:  bookingID,
		UserName:   userName,
		SeatID:     seatID,
		From:       []model.Status{model.StatusPendingCheckin, model.StatusActive},
		To:         model.StatusCancelled,
		SeatStatus: model.SeatAvailable,
		ClearBreak: true,
	})
}

func (s *Service) Complete(ctx context.Context, userName, bookingID, seatID string) (model.Booking, error) {
	return s.transition(ctx, model.Transition{
		BookingID:  bookingID,
		UserName:   userName,
		SeatID:     seatID,
		From:       []model.Status{model.StatusActive, model.StatusOnBreak},
		To:         model.StatusCompleted,
		SeatStatus: model.SeatAvailable,
		ClearBreak: true,
	})
}

func (s *Service) StartBreak(ctx context.Context, userName, bookingID string, minutes int) (model.Booking, error) {
	if minutes > s.maxBreak {
		return model.Booking{}, errs.ErrExceedsMaxBreak
	}
	start := s.now()
	return s.transition(ctx, model.Transition{
		BookingID:    bookingID,
		UserName:     userName,
		From:         []model.Status{model.StatusActive},
		To:           model.StatusOnBreak,
		BreakStart:   &start,
		BreakMinutes: &minutes,
	})
}

func (s *Service) EndBreak(ctx context.Context, userName, bookingID string) (model.Booking, error) {
	return s.transition(ctx, model.Transition{
		BookingID:  bookingID,
		UserName:   userName,
		From:       []model.Status{model.StatusOnBreak},
		To:         model.StatusActive,
		ClearBreak: true,
	})
}

// Release records a timer-driven end (no_show or expired) and frees the seat.
func (s *Service) Release(ctx context.Context, userName, bookingID string, req model.ReleaseRequest) (model.Booking, error) {
	if req.Status != model.StatusNoShow && req.Status != model.StatusExpired {
		return model.Booking{}, errs.ErrInvalidTransition
	}
	return s.transition(ctx, model.Transition{
		BookingID:  bookingID,
		UserName:   userName,
		SeatID:     req.SeatID,
		From:       model.NonTerminal,
		To:         req.Status,
		SeatStatus: model.SeatAvailable,
		ClearBreak: true,
	})
}

// ExpireOverdue is the server-side backstop for devices that went away
// before reporting a timer-driven transition.
func (s *Service) ExpireOverdue(ctx context.Context, checkinWindow time.Duration) error {
	seats, err := s.repo.ExpireOverdue(ctx, checkinWindow, s.now())
	if err != nil {
		return err
	}
	for _, seat := range seats {
		s.publish(ctx, &seat)
	}
	if len(seats) > 0 {
		s.log.Info("overdue bookings closed", zap.Int("count", len(seats)))
	}
	return nil
}

// RunSweeper calls ExpireOverdue every interval until ctx is done. grace is
// added to the window so that a live client always reports first.
func (s *Service) RunSweeper(ctx context.Context, interval, checkinWindow, grace time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ExpireOverdue(ctx, checkinWindow+grace); err != nil {
				s.log.Error("ExpireOverdue", zap.Error(err))
			}
		}
	}
}

func (s *Service) transition(ctx context.Context, t model.Transition) (model.Booking, error) {
	b, seat, err := s.repo.Transition(ctx, t)
	if err != nil {
		return model.Booking{}, err
	}
	if seat != nil {
		s.publish(ctx, seat)
	}
	s.log.Info("booking transition",
		zap.String("id", b.ID),
		zap.String("status", string(b.Status)),
		zap.Bool("seatChanged", seat != nil))
	return b, nil
}

// publish is best-effort: the database is the record, the feed only mirrors it.
func (s *Service) publish(ctx context.Context, seat *model.Seat) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSeat(ctx, kafka.SeatUpdate, *seat); err != nil {
		s.log.Warn("publish seat event", zap.String("seat", seat.ID), zap.Error(err))
	}
}

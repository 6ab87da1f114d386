package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/booking/internal/errs"
	"github.com/Astemirdum/study-seats/booking/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	GetLibrary(ctx context.Context, libraryID string) (model.Library, error)
	ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error)
	CreateBooking(ctx context.Context, b model.Booking) (model.Booking, model.Seat, error)
	GetActiveBooking(ctx context.Context, userName string) (model.Booking, error)
	// Transition applies t and returns the booking plus the seat it touched.
	// A booking already in t.To is returned unchanged with a nil seat.
	Transition(ctx context.Context, t model.Transition) (model.Booking, *model.Seat, error)
	ExpireOverdue(ctx context.Context, checkinWindow time.Duration, now time.Time) ([]model.Seat, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	librariesTableName = `libraries`
	seatsTableName     = `seats`
	bookingsTableName  = `bookings`

	activePerUserIndex = `bookings_one_active_per_user`
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	libraryColumns = []string{"id", "name", "lat", "lon", "radius_meters", "opens_at", "closes_at"}
	seatColumns    = []string{"id", "label", "library_id", "floor_id", "room_id", "status", "amenities"}
	bookingColumns = []string{"id", "user_name", "seat_id", "library_id", "status", "start_time",
		"duration_minutes", "checked_in", "verification_token", "break_start", "break_minutes"}
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func collectOne[T any](ctx context.Context, db querier, b sq.Sqlizer) (T, error) {
	var zero T
	q, args, err := b.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return zero, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

func returning(cols []string) string {
	return "returning " + strings.Join(cols, ", ")
}

func (r *repository) GetLibrary(ctx context.Context, libraryID string) (model.Library, error) {
	lib, err := collectOne[model.Library](ctx, r.db, qb.Select(libraryColumns...).
		From(librariesTableName).
		Where(sq.Eq{"id": libraryID}).
		Limit(1))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Library{}, errs.ErrNotFound
		}
		return model.Library{}, err
	}
	return lib, nil
}

func (r *repository) ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error) {
	b := qb.Select(seatColumns...).
		From(seatsTableName).
		Where(sq.Eq{"library_id": libraryID}).
		OrderBy("floor_id", "label")
	if floorID != "" {
		b = b.Where(sq.Eq{"floor_id": floorID})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	seats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Seat])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return seats, nil
}

func (r *repository) CreateBooking(ctx context.Context, b model.Booking) (model.Booking, model.Seat, error) {
	var (
		created model.Booking
		seat    model.Seat
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		seat, err = collectOne[model.Seat](ctx, tx, qb.Update(seatsTableName).
			Set("status", model.SeatReserved).
			Where(sq.Eq{"id": b.SeatID, "library_id": b.LibraryID, "status": model.SeatAvailable}).
			Suffix(returning(seatColumns)))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrSeatUnavailable
			}
			return err
		}

		created, err = collectOne[model.Booking](ctx, tx, qb.Insert(bookingsTableName).
			Columns(bookingColumns...).
			Values(b.ID, b.UserName, b.SeatID, b.LibraryID, b.Status, b.StartTime,
				b.Duration, b.CheckedIn, b.VerificationToken, nil, nil).
			Suffix(returning(bookingColumns)))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				if pgErr.ConstraintName == activePerUserIndex {
					return errs.ErrBookingAlreadyActive
				}
				return errs.ErrSeatUnavailable
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errs.ErrSeatUnavailable) && !errors.Is(err, errs.ErrBookingAlreadyActive) {
			r.log.Error("CreateBooking", zap.String("seat", b.SeatID), zap.Error(err))
		}
		return model.Booking{}, model.Seat{}, err
	}
	return created, seat, nil
}

func (r *repository) GetActiveBooking(ctx context.Context, userName string) (model.Booking, error) {
	b, err := collectOne[model.Booking](ctx, r.db, qb.Select(bookingColumns...).
		From(bookingsTableName).
		Where(sq.Eq{"user_name": userName, "status": model.NonTerminal}).
		Limit(1))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Booking{}, errs.ErrNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

func (r *repository) Transition(ctx context.Context, t model.Transition) (model.Booking, *model.Seat, error) {
	var (
		booking model.Booking
		seat    *model.Seat
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		upd := qb.Update(bookingsTableName).Set("status", t.To)
		if t.CheckedIn {
			upd = upd.Set("checked_in", true)
		}
		if t.BreakStart != nil {
			upd = upd.Set("break_start", *t.BreakStart)
		}
		if t.BreakMinutes != nil {
			upd = upd.Set("break_minutes", *t.BreakMinutes)
		}
		if t.ClearBreak {
			upd = upd.Set("break_start", nil).Set("break_minutes", nil)
		}
		where := sq.Eq{"id": t.BookingID, "user_name": t.UserName, "status": t.From}
		if t.SeatID != "" {
			where["seat_id"] = t.SeatID
		}

		var err error
		booking, err = collectOne[model.Booking](ctx, tx, upd.Where(where).Suffix(returning(bookingColumns)))
		if errors.Is(err, pgx.ErrNoRows) {
			current, getErr := collectOne[model.Booking](ctx, tx, qb.Select(bookingColumns...).
				From(bookingsTableName).
				Where(sq.Eq{"id": t.BookingID, "user_name": t.UserName}))
			if getErr != nil {
				if errors.Is(getErr, pgx.ErrNoRows) {
					return errs.ErrNotFound
				}
				return getErr
			}
			if current.Status == t.To {
				booking = current
				return nil
			}
			return errors.Wrapf(errs.ErrInvalidTransition, "%s -> %s", current.Status, t.To)
		}
		if err != nil {
			return err
		}

		if t.SeatStatus == "" {
			return nil
		}
		s, err := collectOne[model.Seat](ctx, tx, qb.Update(seatsTableName).
			Set("status", t.SeatStatus).
			Where(sq.Eq{"id": booking.SeatID}).
			Suffix(returning(seatColumns)))
		if err != nil {
			return err
		}
		seat = &s
		return nil
	})
	if err != nil {
		return model.Booking{}, nil, err
	}
	return booking, seat, nil
}

// ExpireOverdue closes bookings whose owner never reported the timer-driven
// transition: pending ones past the check-in window become no_show, running
// ones past their duration become completed. Released seats are returned.
func (r *repository) ExpireOverdue(ctx context.Context, checkinWindow time.Duration, now time.Time) ([]model.Seat, error) {
	const q = `
	with overdue as (
		update bookings
		set status = case when status = 'pending_checkin' then 'no_show' else 'completed' end
		where (status = 'pending_checkin' and start_time + make_interval(secs => $1::int) < $2)
		   or (status in ('active', 'on_break') and start_time + make_interval(mins => duration_minutes) < $2)
		returning seat_id
	)
	update seats s
	set status = 'available'
	from overdue o
	where s.id = o.seat_id
	returning s.id, s.label, s.library_id, s.floor_id, s.room_id, s.status, s.amenities`

	rows, err := r.db.Query(ctx, q, int(checkinWindow.Seconds()), now)
	if err != nil {
		return nil, err
	}
	seats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Seat])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return seats, nil
}

// Package booking is the session service's client of the booking service.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/pkg/circuit_breaker"
	"github.com/Astemirdum/study-seats/pkg/validate"
	"github.com/Astemirdum/study-seats/session/config"
	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/lifecycle"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

const (
	XUserName = "X-User-Name"
)

type Service struct {
	log       *zap.Logger
	client    *http.Client
	baseURL   string
	cb        circuit_breaker.CircuitBreaker
	validator *validate.CustomValidator
}

func NewService(log *zap.Logger, cfg config.BookingHTTPServer) *Service {
	return &Service{
		log:       log.Named("booking_client"),
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   fmt.Sprintf("http://%s/api/v1", net.JoinHostPort(cfg.Host, cfg.Port)),
		cb:        circuit_breaker.New(100, time.Second, 0.2, 2),
		validator: validate.NewCustomValidator(),
	}
}

func (s *Service) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

type libraryDTO struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat" validate:"latitude"`
	Lon          float64 `json:"lon" validate:"longitude"`
	RadiusMeters float64 `json:"radiusMeters" validate:"gt=0"`
	OpensAt      string  `json:"opensAt"`
	ClosesAt     string  `json:"closesAt"`
}

type seatDTO struct {
	ID        string   `json:"id" validate:"required"`
	Label     string   `json:"label"`
	LibraryID string   `json:"libraryId" validate:"required"`
	FloorID   string   `json:"floorId"`
	RoomID    string   `json:"roomId"`
	Status    string   `json:"status" validate:"oneof=available reserved occupied"`
	Amenities []string `json:"amenities"`
}

type bookingDTO struct {
	ID                string     `json:"id" validate:"required"`
	UserID            string     `json:"userId"`
	SeatID            string     `json:"seatId" validate:"required"`
	LibraryID         string     `json:"libraryId" validate:"required"`
	Status            string     `json:"status" validate:"oneof=pending_checkin active on_break completed cancelled expired no_show"`
	StartTime         time.Time  `json:"startTime" validate:"required"`
	Duration          int        `json:"duration" validate:"min=1"`
	CheckedIn         bool       `json:"checkedIn"`
	VerificationToken string     `json:"verificationToken"`
	BreakStart        *time.Time `json:"breakStart"`
	BreakDuration     *int       `json:"breakDuration"`
}

type createRequest struct {
	SeatID    string `json:"seatId"`
	Duration  int    `json:"duration"`
	LibraryID string `json:"libraryId"`
}

type createdDTO struct {
	ID                string    `json:"id" validate:"required"`
	SeatID            string    `json:"seatId" validate:"required"`
	StartTime         time.Time `json:"startTime" validate:"required"`
	VerificationToken string    `json:"verificationToken" validate:"required"`
}

type seatRequest struct {
	SeatID string `json:"seatId"`
}

type breakRequest struct {
	Duration int `json:"duration"`
}

type releaseRequest struct {
	SeatID string `json:"seatId"`
	Status string `json:"status"`
}

type apiError struct {
	Message string `json:"message"`
}

func (s *Service) GetLibrary(ctx context.Context, libraryID string) (model.Library, error) {
	var lib libraryDTO
	if err := s.do(ctx, http.MethodGet, "/libraries/"+url.PathEscape(libraryID), "", nil, &lib, errs.ErrLibraryNotFound); err != nil {
		return model.Library{}, err
	}
	if err := s.checkPayload(lib); err != nil {
		return model.Library{}, err
	}
	return model.Library{
		ID:           lib.ID,
		Name:         lib.Name,
		Center:       model.Coordinate{Lat: lib.Lat, Lon: lib.Lon},
		RadiusMeters: lib.RadiusMeters,
		OpensAt:      lib.OpensAt,
		ClosesAt:     lib.ClosesAt,
	}, nil
}

func (s *Service) ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error) {
	path := "/libraries/" + url.PathEscape(libraryID) + "/seats"
	if floorID != "" {
		path += "?" + url.Values{"floor": {floorID}}.Encode()
	}
	var dtos []seatDTO
	if err := s.do(ctx, http.MethodGet, path, "", nil, &dtos, errs.ErrLibraryNotFound); err != nil {
		return nil, err
	}
	seats := make([]model.Seat, 0, len(dtos))
	for _, d := range dtos {
		if err := s.checkPayload(d); err != nil {
			s.log.Warn("skip invalid seat", zap.String("seat", d.ID), zap.Error(err))
			continue
		}
		seats = append(seats, model.Seat{
			ID:        d.ID,
			Label:     d.Label,
			LibraryID: d.LibraryID,
			FloorID:   d.FloorID,
			RoomID:    d.RoomID,
			Status:    model.SeatStatus(d.Status),
			Amenities: d.Amenities,
		})
	}
	return seats, nil
}

// GetActiveBooking returns errs.ErrNoSuchBooking when the user holds none.
func (s *Service) GetActiveBooking(ctx context.Context, userID string) (model.Booking, error) {
	var d bookingDTO
	if err := s.do(ctx, http.MethodGet, "/bookings/active", userID, nil, &d, errs.ErrNoSuchBooking); err != nil {
		return model.Booking{}, err
	}
	if err := s.checkPayload(d); err != nil {
		return model.Booking{}, err
	}
	return model.Booking{
		ID:                d.ID,
		UserID:            userID,
		SeatID:            d.SeatID,
		LibraryID:         d.LibraryID,
		Status:            model.Status(d.Status),
		StartTime:         d.StartTime,
		DurationMinutes:   d.Duration,
		CheckedIn:         d.CheckedIn,
		VerificationToken: d.VerificationToken,
		BreakStart:        d.BreakStart,
		BreakMinutes:      d.BreakDuration,
	}, nil
}

func (s *Service) CreateBooking(ctx context.Context, userID, seatID string, duration int, libraryID string) (model.CreatedBooking, error) {
	var d createdDTO
	in := createRequest{SeatID: seatID, Duration: duration, LibraryID: libraryID}
	if err := s.do(ctx, http.MethodPost, "/bookings", userID, in, &d, errs.ErrLibraryNotFound); err != nil {
		return model.CreatedBooking{}, err
	}
	if err := s.checkPayload(d); err != nil {
		return model.CreatedBooking{}, err
	}
	return model.CreatedBooking{
		ID:                d.ID,
		SeatID:            d.SeatID,
		StartTime:         d.StartTime,
		VerificationToken: d.VerificationToken,
	}, nil
}

func (s *Service) CheckIn(ctx context.Context, userID, bookingID, seatID string) error {
	return s.command(ctx, userID, bookingID, "checkin", seatRequest{SeatID: seatID})
}

func (s *Service) Cancel(ctx context.Context, userID, bookingID, seatID string) error {
	return s.command(ctx, userID, bookingID, "cancel", seatRequest{SeatID: seatID})
}

func (s *Service) Complete(ctx context.Context, userID, bookingID, seatID string) error {
	return s.command(ctx, userID, bookingID, "complete", seatRequest{SeatID: seatID})
}

func (s *Service) StartBreak(ctx context.Context, userID, bookingID string, minutes int) error {
	return s.command(ctx, userID, bookingID, "break", breakRequest{Duration: minutes})
}

func (s *Service) EndBreak(ctx context.Context, userID, bookingID string) error {
	return s.command(ctx, userID, bookingID, "break/end", struct{}{})
}

// Release tells the server a timer released the seat (no_show or expired).
func (s *Service) Release(ctx context.Context, userID, bookingID, seatID string, status model.Status) error {
	return s.command(ctx, userID, bookingID, "release", releaseRequest{SeatID: seatID, Status: string(status)})
}

func (s *Service) command(ctx context.Context, userID, bookingID, action string, body any) error {
	path := "/bookings/" + url.PathEscape(bookingID) + "/" + action
	return s.do(ctx, http.MethodPost, path, userID, body, nil, errs.ErrNoSuchBooking)
}

// do runs one request through the breaker. Transport failures, 5xx answers
// and an open breaker surface as errs.ErrNetworkFailure.
func (s *Service) do(ctx context.Context, method, path, userID string, in, out any, notFound error) error {
	err := s.cb.Call(func() error {
		return s.roundTrip(ctx, method, path, userID, in, out, notFound)
	})
	if errors.Is(err, circuit_breaker.ErrOpenCB) {
		return errors.Wrap(errs.ErrNetworkFailure, "booking service unavailable")
	}
	return err
}

func (s *Service) roundTrip(ctx context.Context, method, path, userID string, in, out any, notFound error) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(in); err != nil {
			return circuit_breaker.Ignore(err)
		}
		body = b
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return circuit_breaker.Ignore(err)
	}
	if userID != "" {
		req.Header.Set(XUserName, userID)
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(errs.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Wrapf(errs.ErrNetworkFailure, "%s %s: %d", method, path, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr) //nolint:errcheck
		return circuit_breaker.Ignore(mapError(resp.StatusCode, apiErr.Message, notFound))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (s *Service) checkPayload(v any) error {
	if err := s.validator.Validate(v); err != nil {
		return errors.Wrap(err, "invalid response")
	}
	return nil
}

var conflicts = map[string]error{
	errs.ErrSeatUnavailable.Error():      errs.ErrSeatUnavailable,
	errs.ErrBookingAlreadyActive.Error(): errs.ErrBookingAlreadyActive,
	errs.ErrInvalidTransition.Error():    errs.ErrInvalidTransition,
	errs.ErrExceedsMaxBreak.Error():      errs.ErrExceedsMaxBreak,
}

func mapError(code int, msg string, notFound error) error {
	if sentinel, ok := conflicts[msg]; ok {
		return sentinel
	}
	switch code {
	case http.StatusNotFound:
		return notFound
	case http.StatusUnauthorized:
		return errs.ErrUserName
	case http.StatusConflict:
		return errors.Wrap(errs.ErrInvalidTransition, msg)
	}
	return errors.Errorf("booking service: %d %s", code, msg)
}

var _ lifecycle.BookingAPI = (*UserAPI)(nil)

// ForUser scopes the client to one user for the lifecycle machine.
func (s *Service) ForUser(userID string) lifecycle.BookingAPI {
	return &UserAPI{svc: s, userID: userID}
}

type UserAPI struct {
	svc    *Service
	userID string
}

func (u *UserAPI) CreateBooking(ctx context.Context, seatID string, durationMinutes int, libraryID string) (model.CreatedBooking, error) {
	return u.svc.CreateBooking(ctx, u.userID, seatID, durationMinutes, libraryID)
}

func (u *UserAPI) CheckIn(ctx context.Context, bookingID, seatID string) error {
	return u.svc.CheckIn(ctx, u.userID, bookingID, seatID)
}

func (u *UserAPI) Cancel(ctx context.Context, bookingID, seatID string) error {
	return u.svc.Cancel(ctx, u.userID, bookingID, seatID)
}

func (u *UserAPI) Complete(ctx context.Context, bookingID, seatID string) error {
	return u.svc.Complete(ctx, u.userID, bookingID, seatID)
}

func (u *UserAPI) StartBreak(ctx context.Context, bookingID string, minutes int) error {
	return u.svc.StartBreak(ctx, u.userID, bookingID, minutes)
}

func (u *UserAPI) EndBreak(ctx context.Context, bookingID string) error {
	return u.svc.EndBreak(ctx, u.userID, bookingID)
}

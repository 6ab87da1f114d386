package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/booking/internal/errs"
	"github.com/Astemirdum/study-seats/booking/internal/handler"
	service_mocks "github.com/Astemirdum/study-seats/booking/internal/handler/mocks"
	"github.com/Astemirdum/study-seats/booking/internal/model"
	md "github.com/Astemirdum/study-seats/pkg/middleware"
	"github.com/Astemirdum/study-seats/pkg/validate"
)

func newEcho(h *handler.Handler) *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/bookings", h.CreateBooking, md.UserName)
	e.GET("/bookings/active", h.GetActiveBooking, md.UserName)
	e.POST("/bookings/:bookingId/checkin", h.CheckIn, md.UserName)
	e.POST("/bookings/:bookingId/release", h.Release, md.UserName)
	e.POST("/bookings/:bookingId/break", h.StartBreak, md.UserName)
	e.GET("/libraries/:libraryId/seats", h.ListSeats)
	return e
}

func TestHandler_CreateBooking(t *testing.T) {
	t.Parallel()
	type input struct {
		user string
		body string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookingService)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookingService) {
				r.EXPECT().
					CreateBooking(gomock.Any(), model.CreateBookingRequest{SeatID: "A-42", Duration: 120, LibraryID: "central", UserName: "alice"}).
					Return(model.CreateBookingResponse{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
			},
			input: input{user: "alice", body: `{"seatId":"A-42","duration":120,"libraryId":"central"}`},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"b1","seatId":"A-42","startTime":"2024-03-01T10:00:00Z","verificationToken":"tok"}`,
			},
		},
		{
			name: "err. seat unavailable",
			mockBehavior: func(r *service_mocks.MockBookingService) {
				r.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
					Return(model.CreateBookingResponse{}, errs.ErrSeatUnavailable)
			},
			input: input{user: "alice", body: `{"seatId":"A-42","duration":120,"libraryId":"central"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"seat unavailable"}`,
			},
		},
		{
			name: "err. already active",
			mockBehavior: func(r *service_mocks.MockBookingService) {
				r.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
					Return(model.CreateBookingResponse{}, errs.ErrBookingAlreadyActive)
			},
			input: input{user: "alice", body: `{"seatId":"A-42","duration":120,"libraryId":"central"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"booking already active"}`,
			},
		},
		{
			name:         "err. no user",
			mockBehavior: func(r *service_mocks.MockBookingService) {},
			input:        input{body: `{"seatId":"A-42","duration":120,"libraryId":"central"}`},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"username is required"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookingService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))
			e := newEcho(h)

			r := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.input.user != "" {
				r.Header.Set(md.XUserName, tt.input.user)
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateBooking_Validation(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockBookingService(c)
	e := newEcho(handler.New(svc, zap.NewNop()))

	r := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"seatId":"A-42","duration":0}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(md.XUserName, "alice")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CheckIn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{name: "ok", expectedCode: http.StatusOK},
		{name: "err. not found", err: errs.ErrNotFound, expectedCode: http.StatusNotFound},
		{name: "err. invalid transition", err: errs.ErrInvalidTransition, expectedCode: http.StatusConflict},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			svc := service_mocks.NewMockBookingService(c)
			e := newEcho(handler.New(svc, zap.NewNop()))

			svc.EXPECT().CheckIn(gomock.Any(), "alice", "b1", "A-42").
				Return(model.Booking{ID: "b1", Status: model.StatusActive, CheckedIn: true}, tt.err)

			r := httptest.NewRequest(http.MethodPost, "/bookings/b1/checkin", strings.NewReader(`{"seatId":"A-42"}`))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(md.XUserName, "alice")
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_Release(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockBookingService(c)
	e := newEcho(handler.New(svc, zap.NewNop()))

	svc.EXPECT().Release(gomock.Any(), "alice", "b1", model.ReleaseRequest{SeatID: "A-42", Status: model.StatusNoShow}).
		Return(model.Booking{ID: "b1", Status: model.StatusNoShow}, nil)

	r := httptest.NewRequest(http.MethodPost, "/bookings/b1/release", strings.NewReader(`{"seatId":"A-42","status":"no_show"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(md.XUserName, "alice")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/bookings/b1/release", strings.NewReader(`{"seatId":"A-42","status":"completed"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(md.XUserName, "alice")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_StartBreak_ExceedsMax(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockBookingService(c)
	e := newEcho(handler.New(svc, zap.NewNop()))

	svc.EXPECT().StartBreak(gomock.Any(), "alice", "b1", 45).
		Return(model.Booking{}, errs.ErrExceedsMaxBreak)

	r := httptest.NewRequest(http.MethodPost, "/bookings/b1/break", strings.NewReader(`{"duration":45}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(md.XUserName, "alice")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, `{"message":"break exceeds maximum"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_ListSeats(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockBookingService(c)
	e := newEcho(handler.New(svc, zap.NewNop()))

	svc.EXPECT().ListSeats(gomock.Any(), "central", "1").
		Return([]model.Seat{{ID: "A-42", Label: "A-42", LibraryID: "central", FloorID: "1", RoomID: "quiet", Status: model.SeatAvailable, Amenities: []string{"power"}}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/libraries/central/seats?floor=1", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":"A-42","label":"A-42","libraryId":"central","floorId":"1","roomId":"quiet","status":"available","amenities":["power"]}]`,
		strings.Trim(w.Body.String(), "\n"))
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	md "github.com/Astemirdum/study-seats/pkg/middleware"
	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/handler"
	service_mocks "github.com/Astemirdum/study-seats/session/internal/handler/mocks"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

func setup(t *testing.T) (*service_mocks.MockSessionService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockSessionService(c)
	return svc, handler.New(svc, zap.NewNop()).NewRouter()
}

func do(e *echo.Echo, method, path, user, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, http.NoBody)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		r.Header.Set(md.XUserName, user)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_Current(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.EXPECT().Current(gomock.Any(), "alice").Return(model.BookingView{Status: model.StatusNone, At: at}, nil)

	w := do(e, http.MethodGet, "/api/v1/bookings/current", "alice", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"none","booking":null,"checkinTimeRemaining":null,
		"breakTimeRemaining":null,"secondsLeft":null,"activeTimers":null,"at":"2024-03-01T10:00:00Z"}`, w.Body.String())
}

func TestHandler_NoUser(t *testing.T) {
	t.Parallel()
	_, e := setup(t)

	w := do(e, http.MethodGet, "/api/v1/bookings/current", "", "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"username is required"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_CreateBooking(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockSessionService)
	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"seatId":"A-42","duration":60,"libraryId":"central"}`,
			mockBehavior: func(r *service_mocks.MockSessionService) {
				r.EXPECT().CreateBooking(gomock.Any(), "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"}).
					Return(model.BookingView{Status: model.StatusPendingCheckin}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. validation",
			body:         `{"seatId":"","duration":60}`,
			mockBehavior: func(r *service_mocks.MockSessionService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. seat unavailable",
			body: `{"seatId":"A-42","duration":60,"libraryId":"central"}`,
			mockBehavior: func(r *service_mocks.MockSessionService) {
				r.EXPECT().CreateBooking(gomock.Any(), "alice", gomock.Any()).
					Return(model.BookingView{}, errors.Wrap(errs.ErrSeatUnavailable, "A-42"))
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"seat unavailable"}`,
		},
		{
			name: "err. network",
			body: `{"seatId":"A-42","duration":60,"libraryId":"central"}`,
			mockBehavior: func(r *service_mocks.MockSessionService) {
				r.EXPECT().CreateBooking(gomock.Any(), "alice", gomock.Any()).
					Return(model.BookingView{}, errs.ErrNetworkFailure)
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"message":"network failure"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := setup(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPost, "/api/v1/bookings", "alice", tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_CheckIn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{name: "ok", expectedCode: http.StatusOK},
		{
			name:         "err. out of range",
			err:          &errs.RangeError{DistanceMeters: 150, RadiusMeters: 100},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"distanceMeters":150,"message":"not in range","radiusMeters":100}`,
		},
		{
			name:         "err. no reading",
			err:          errors.Wrap(errs.ErrNotInRange, "no location reading for library"),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"message":"not in range"}`,
		},
		{
			name:         "err. window expired",
			err:          errs.ErrWindowExpired,
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"check-in window expired"}`,
		},
		{
			name:         "err. permission denied",
			err:          errs.ErrPermissionDenied,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"message":"location permission denied"}`,
		},
		{
			name:         "err. no such booking",
			err:          errors.Wrap(errs.ErrNoSuchBooking, "b1"),
			expectedCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := setup(t)
			svc.EXPECT().CheckIn(gomock.Any(), "alice", "b1").
				Return(model.BookingView{Status: model.StatusActive}, tt.err)

			w := do(e, http.MethodPost, "/api/v1/bookings/b1/checkin", "alice", "")

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReportLocation(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	d := 12.5
	svc.EXPECT().ReportLocation(gomock.Any(), "alice", model.Coordinate{Lat: 40.7128, Lon: -74.006}, true).
		Return(model.LocationReading{Status: model.LocationInRange, DistanceMeters: &d, RadiusMeters: 100, LibraryID: "central", PermissionGranted: true}, nil)

	w := do(e, http.MethodPut, "/api/v1/location", "alice", `{"lat":40.7128,"lon":-74.006,"permissionGranted":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"in_range","distanceMeters":12.5,"radiusMeters":100,"libraryId":"central","permissionGranted":true}`, w.Body.String())

	w = do(e, http.MethodPut, "/api/v1/location", "alice", `{"lat":120,"lon":-74.006}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(e, http.MethodPut, "/api/v1/location", "alice", `{"lon":-74.006}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_StartBreak(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	svc.EXPECT().StartBreak(gomock.Any(), "alice", 45).Return(model.BookingView{}, errs.ErrExceedsMaxBreak)

	w := do(e, http.MethodPost, "/api/v1/bookings/current/break", "alice", `{"duration":45}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, `{"message":"break exceeds maximum"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_CheckBreak(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	present := true
	svc.EXPECT().CheckBreak(gomock.Any(), "alice", &present).Return(model.BookingView{Status: model.StatusActive}, nil)
	svc.EXPECT().CheckBreak(gomock.Any(), "alice", gomock.Nil()).Return(model.BookingView{}, errs.ErrBreakNotElapsed)

	w := do(e, http.MethodPost, "/api/v1/bookings/current/break/check", "alice", `{"inRange":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(e, http.MethodPost, "/api/v1/bookings/current/break/check", "alice", "")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_VerificationQR(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	svc.EXPECT().VerificationQR(gomock.Any(), "alice").Return([]byte("\x89PNG"), nil)

	w := do(e, http.MethodGet, "/api/v1/bookings/current/qr", "alice", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get(echo.HeaderContentType))
	require.Equal(t, "\x89PNG", w.Body.String())
}

func TestHandler_Seats(t *testing.T) {
	t.Parallel()
	svc, e := setup(t)
	svc.EXPECT().Seats(gomock.Any(), "central", "1").
		Return([]model.Seat{{ID: "A-42", LibraryID: "central", FloorID: "1", Status: model.SeatReserved}}, nil)

	w := do(e, http.MethodGet, "/api/v1/libraries/central/seats?floor=1", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"reserved"`)
}

package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/config"
	"github.com/Astemirdum/study-seats/session/internal/cache"
	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/feed"
	lifecycle_mocks "github.com/Astemirdum/study-seats/session/internal/lifecycle/mocks"
	"github.com/Astemirdum/study-seats/session/internal/model"
	"github.com/Astemirdum/study-seats/session/internal/service"
	service_mocks "github.com/Astemirdum/study-seats/session/internal/service/mocks"
	"github.com/Astemirdum/study-seats/session/internal/timer"
)

var (
	start   = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	central = model.Library{
		ID:           "central",
		Name:         "Central",
		Center:       model.Coordinate{Lat: 40.7128, Lon: -74.006},
		RadiusMeters: 100,
	}
	lifecycleCfg = config.Lifecycle{
		CheckinWindowMinutes: 15,
		MaxBreakMinutes:      30,
		TickInterval:         time.Second,
		LocationMaxAge:       2 * time.Minute,
		SeatsMaxAge:          30 * time.Second,
	}
)

type recordingSyncer struct {
	mu       sync.Mutex
	outcomes []model.Outcome
}

func (r *recordingSyncer) Sync(o model.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingSyncer) all() []model.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Outcome(nil), r.outcomes...)
}

type fixture struct {
	client *service_mocks.MockBookingClient
	store  *service_mocks.MockSnapshotStore
	api    *lifecycle_mocks.MockBookingAPI
	clock  *timer.ManualClock
	seats  *feed.SeatCache
	syncer *recordingSyncer
	svc    *service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := gomock.NewController(t)
	f := &fixture{
		client: service_mocks.NewMockBookingClient(c),
		store:  service_mocks.NewMockSnapshotStore(c),
		api:    lifecycle_mocks.NewMockBookingAPI(c),
		clock:  timer.NewManualClock(start),
		seats:  feed.NewSeatCache(),
		syncer: &recordingSyncer{},
	}
	f.client.EXPECT().ForUser(gomock.Any()).Return(f.api).AnyTimes()
	f.store.EXPECT().SaveBooking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.svc = service.New(zap.NewNop(), lifecycleCfg, f.client, f.seats,
		service.WithStore(f.store),
		service.WithSyncer(f.syncer),
		service.WithClock(f.clock))
	return f
}

func (f *fixture) noActiveBooking(user string) {
	f.client.EXPECT().GetActiveBooking(gomock.Any(), user).Return(model.Booking{}, errs.ErrNoSuchBooking)
}

func (f *fixture) selectCentral(t *testing.T, user string) model.Selection {
	t.Helper()
	f.client.EXPECT().GetLibrary(gomock.Any(), "central").Return(central, nil)
	f.client.EXPECT().ListSeats(gomock.Any(), "central", "").
		Return([]model.Seat{{ID: "A-42", LibraryID: "central", Status: model.SeatAvailable}}, nil)
	f.store.EXPECT().SaveSeats(gomock.Any(), "central", "", gomock.Any()).Return(nil)
	sel, err := f.svc.SelectLibrary(context.Background(), user, "central")
	require.NoError(t, err)
	return sel
}

func TestService_BookAndCheckIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")

	sel := f.selectCentral(t, "alice")
	require.Equal(t, central, sel.Library)
	require.Len(t, sel.Seats, 1)
	require.Equal(t, model.LocationUnknown, sel.Location.Status)

	reading, err := f.svc.ReportLocation(ctx, "alice", central.Center, true)
	require.NoError(t, err)
	require.Equal(t, model.LocationInRange, reading.Status)

	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	view, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingCheckin, view.Status)
	require.NotNil(t, view.CheckinTimeRemaining)
	require.Equal(t, 15*60, *view.CheckinTimeRemaining)

	st, ok := f.seats.SeatStatus("central", "A-42")
	require.True(t, ok)
	require.Equal(t, model.SeatReserved, st)

	png, err := f.svc.VerificationQR(ctx, "alice")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	f.clock.Advance(5 * time.Minute)
	_, err = f.svc.ReportLocation(ctx, "alice", central.Center, true)
	require.NoError(t, err)
	f.api.EXPECT().CheckIn(gomock.Any(), "b1", "A-42").Return(nil)
	view, err = f.svc.CheckIn(ctx, "alice", "b1")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, view.Status)
	require.Equal(t, []model.TimerKind{model.TimerSession}, view.ActiveTimers)
	require.Equal(t, 55*60, *view.SecondsLeft)
}

func TestService_CheckIn_OutOfRange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")
	f.selectCentral(t, "alice")

	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	_, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)

	// roughly 1.1 km north
	_, err = f.svc.ReportLocation(ctx, "alice", model.Coordinate{Lat: 40.7228, Lon: -74.006}, true)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, "alice", "b1")
	var rangeErr *errs.RangeError
	require.ErrorAs(t, err, &rangeErr)
	require.ErrorIs(t, err, errs.ErrNotInRange)
	require.InDelta(t, 1112, rangeErr.DistanceMeters, 5)
	require.Equal(t, 100.0, rangeErr.RadiusMeters)
}

func TestService_CheckIn_PermissionDenied(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")
	f.selectCentral(t, "alice")

	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	_, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)

	_, err = f.svc.ReportLocation(ctx, "alice", central.Center, false)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	_, err = f.svc.CheckIn(ctx, "alice", "b1")
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestService_CheckIn_WindowLapsed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")
	f.selectCentral(t, "alice")

	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	_, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)

	f.clock.Advance(16 * time.Minute)
	_, err = f.svc.ReportLocation(ctx, "alice", central.Center, false)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	_, err = f.svc.CheckIn(ctx, "alice", "b1")
	require.ErrorIs(t, err, errs.ErrWindowExpired)
}

func TestService_HydratesFromServer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.client.EXPECT().GetActiveBooking(gomock.Any(), "alice").Return(model.Booking{
		ID:              "b1",
		SeatID:          "A-42",
		LibraryID:       "central",
		Status:          model.StatusActive,
		StartTime:       start.Add(-30 * time.Minute),
		DurationMinutes: 60,
		CheckedIn:       true,
	}, nil)
	f.client.EXPECT().GetLibrary(gomock.Any(), "central").Return(central, nil)

	view, err := f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, view.Status)
	require.Equal(t, 30*60, *view.SecondsLeft)

	// hydrated once
	view, err = f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, view.Status)
}

func TestService_HydratesFromSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	snapshot := &model.Booking{
		ID:              "b1",
		UserID:          "alice",
		SeatID:          "A-42",
		LibraryID:       "central",
		Status:          model.StatusPendingCheckin,
		StartTime:       start.Add(-5 * time.Minute),
		DurationMinutes: 60,
	}
	f.client.EXPECT().GetActiveBooking(gomock.Any(), "alice").Return(model.Booking{}, errs.ErrNetworkFailure)
	f.store.EXPECT().LoadBooking(gomock.Any(), "alice").
		Return(cache.BookingSnapshot{Booking: snapshot, Library: central, FetchedAt: start.Add(-time.Minute)}, nil)

	view, err := f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingCheckin, view.Status)
	require.Equal(t, 10*60, *view.CheckinTimeRemaining)

	// the server is asked again once it is reachable, and its answer wins
	f.client.EXPECT().GetActiveBooking(gomock.Any(), "alice").Return(model.Booking{}, errs.ErrNoSuchBooking)
	view, err = f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusNone, view.Status)
	require.Nil(t, view.Booking)
	require.Empty(t, view.ActiveTimers)

	f.clock.Advance(20 * time.Minute)
	require.Zero(t, f.svc.Tick(context.Background()))
	require.Empty(t, f.syncer.all())

	f.selectCentral(t, "alice")
	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b2", SeatID: "A-42", StartTime: f.clock.Now(), VerificationToken: "tok"}, nil)
	view, err = f.svc.CreateBooking(context.Background(), "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingCheckin, view.Status)
	require.Equal(t, "b2", view.Booking.ID)
}

func TestService_ServerBookingReplacesSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	snapshot := &model.Booking{
		ID:              "b1",
		UserID:          "alice",
		SeatID:          "A-42",
		LibraryID:       "central",
		Status:          model.StatusPendingCheckin,
		StartTime:       start.Add(-5 * time.Minute),
		DurationMinutes: 60,
	}
	f.client.EXPECT().GetActiveBooking(gomock.Any(), "alice").Return(model.Booking{}, errs.ErrNetworkFailure)
	f.store.EXPECT().LoadBooking(gomock.Any(), "alice").
		Return(cache.BookingSnapshot{Booking: snapshot, Library: central, FetchedAt: start}, nil)
	_, err := f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)

	f.client.EXPECT().GetActiveBooking(gomock.Any(), "alice").Return(model.Booking{
		ID:              "b7",
		SeatID:          "C-3",
		LibraryID:       "central",
		Status:          model.StatusActive,
		StartTime:       start.Add(-10 * time.Minute),
		DurationMinutes: 60,
		CheckedIn:       true,
	}, nil)
	f.client.EXPECT().GetLibrary(gomock.Any(), "central").Return(central, nil)

	view, err := f.svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, view.Status)
	require.Equal(t, "b7", view.Booking.ID)
	require.Equal(t, []model.TimerKind{model.TimerSession}, view.ActiveTimers)
	require.Equal(t, 50*60, *view.SecondsLeft)
}

func TestService_SeatsFallBackToSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.client.EXPECT().ListSeats(gomock.Any(), "central", "2").Return(nil, errs.ErrNetworkFailure)
	f.store.EXPECT().LoadSeats(gomock.Any(), "central", "2").Return(cache.SeatsSnapshot{
		Seats:     []model.Seat{{ID: "B-1", LibraryID: "central", FloorID: "2", Status: model.SeatOccupied}},
		FetchedAt: start.Add(-time.Hour),
	}, nil)

	seats, err := f.svc.Seats(context.Background(), "central", "2")
	require.NoError(t, err)
	require.Len(t, seats, 1)
	require.Equal(t, model.SeatOccupied, seats[0].Status)
}

func TestService_SeatsServedFromCacheWhileFresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.client.EXPECT().ListSeats(gomock.Any(), "central", "").
		Return([]model.Seat{{ID: "A-1", LibraryID: "central", Status: model.SeatAvailable}}, nil).Times(2)
	f.store.EXPECT().SaveSeats(gomock.Any(), "central", "", gomock.Any()).Return(nil).Times(2)

	_, err := f.svc.Seats(context.Background(), "central", "")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Second)
	_, err = f.svc.Seats(context.Background(), "central", "")
	require.NoError(t, err)

	f.clock.Advance(25 * time.Second)
	_, err = f.svc.Seats(context.Background(), "central", "")
	require.NoError(t, err)
}

func TestService_TickReportsNoShow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")
	f.selectCentral(t, "alice")
	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	_, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)

	f.clock.Advance(14 * time.Minute)
	require.Zero(t, f.svc.Tick(ctx))
	f.clock.Advance(time.Minute)
	require.Equal(t, 1, f.svc.Tick(ctx))

	view, err := f.svc.Current(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusNoShow, view.Status)
	require.Empty(t, view.ActiveTimers)
	require.Equal(t, []model.Outcome{{UserID: "alice", BookingID: "b1", SeatID: "A-42", Status: model.StatusNoShow}}, f.syncer.all())

	st, _ := f.seats.SeatStatus("central", "A-42")
	require.Equal(t, model.SeatAvailable, st)
}

func TestService_SeatStatusChangedForcesExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.noActiveBooking("alice")
	f.selectCentral(t, "alice")
	f.api.EXPECT().CreateBooking(gomock.Any(), "A-42", 60, "central").
		Return(model.CreatedBooking{ID: "b1", SeatID: "A-42", StartTime: start, VerificationToken: "tok"}, nil)
	_, err := f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.NoError(t, err)

	forced := f.svc.SeatStatusChanged(model.SeatEvent{
		Type: model.SeatUpdate,
		Seat: model.Seat{ID: "A-42", LibraryID: "central", Status: model.SeatAvailable},
		At:   start.Add(time.Minute),
	})
	require.Equal(t, 1, forced)

	view, err := f.svc.Current(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusExpired, view.Status)
	require.Empty(t, f.syncer.all())
}

func TestService_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Current(ctx, "")
	require.ErrorIs(t, err, errs.ErrUserName)

	f.noActiveBooking("alice")
	_, err = f.svc.RefreshLocation(ctx, "alice")
	require.ErrorIs(t, err, errs.ErrNoActiveLibrary)

	_, err = f.svc.VerificationQR(ctx, "alice")
	require.ErrorIs(t, err, errs.ErrNoSuchBooking)

	_, err = f.svc.CheckBreak(ctx, "alice", nil)
	require.ErrorIs(t, err, errs.ErrNotOnBreak)

	_, err = f.svc.CreateBooking(ctx, "alice", model.CreateBookingRequest{SeatID: "A-42", Duration: 60, LibraryID: "central"})
	require.ErrorIs(t, err, errs.ErrNoActiveLibrary)
}

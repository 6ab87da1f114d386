package location_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/location"
	mock_location "github.com/Astemirdum/study-seats/session/internal/location/mocks"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

var (
	central = model.Library{ID: "central", Center: model.Coordinate{Lat: 55.7558, Lon: 37.6173}, RadiusMeters: 150}
	far     = model.Coordinate{Lat: 55.7600, Lon: 37.6173}
)

func TestTracker_SetTarget(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	loc := mock_location.NewMockLocator(c)
	tr := location.NewTracker(loc, zap.NewNop())

	loc.EXPECT().Locate(gomock.Any()).Return(central.Center, nil)
	status, err := tr.SetTarget(context.Background(), central)
	require.NoError(t, err)
	assert.Equal(t, model.LocationInRange, status)
	assert.Equal(t, model.LocationInRange, tr.Status())
	require.NotNil(t, tr.DistanceMeters())
	assert.Zero(t, *tr.DistanceMeters())
	assert.True(t, tr.PermissionGranted())

	target, ok := tr.Target()
	require.True(t, ok)
	assert.Equal(t, "central", target.ID)

	r := tr.Reading()
	assert.Equal(t, "central", r.LibraryID)
	assert.Equal(t, 150.0, r.RadiusMeters)
}

func TestTracker_Refresh_NoTarget(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	tr := location.NewTracker(mock_location.NewMockLocator(c), zap.NewNop())

	status, err := tr.Refresh(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.LocationUnknown, status)
	assert.Nil(t, tr.DistanceMeters())
}

func TestTracker_Refresh_FailureKeepsPrevious(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	loc := mock_location.NewMockLocator(c)
	tr := location.NewTracker(loc, zap.NewNop())

	loc.EXPECT().Locate(gomock.Any()).Return(far, nil)
	_, err := tr.SetTarget(context.Background(), central)
	require.NoError(t, err)
	require.Equal(t, model.LocationOutOfRange, tr.Status())
	before := *tr.DistanceMeters()

	loc.EXPECT().Locate(gomock.Any()).Return(model.Coordinate{}, errs.ErrLocationUnavailable)
	status, err := tr.Refresh(context.Background(), nil)
	require.ErrorIs(t, err, errs.ErrLocationUnavailable)
	assert.Equal(t, model.LocationOutOfRange, status)
	assert.Equal(t, model.LocationOutOfRange, tr.Status())
	assert.Equal(t, before, *tr.DistanceMeters())

	loc.EXPECT().Locate(gomock.Any()).Return(model.Coordinate{}, errs.ErrPermissionDenied)
	_, err = tr.Refresh(context.Background(), nil)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.False(t, tr.PermissionGranted())
	assert.Equal(t, model.LocationOutOfRange, tr.Status())
}

func TestTracker_Refresh_ForeignErrorIsUnavailable(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	loc := mock_location.NewMockLocator(c)
	tr := location.NewTracker(loc, zap.NewNop())

	loc.EXPECT().Locate(gomock.Any()).Return(model.Coordinate{}, context.DeadlineExceeded)
	_, err := tr.Refresh(context.Background(), &central)
	require.ErrorIs(t, err, errs.ErrLocationUnavailable)
	assert.Equal(t, model.LocationUnknown, tr.Status())
}

type blockingLocator struct {
	started chan struct{}
	release chan struct{}
	coord   model.Coordinate
}

func (l *blockingLocator) Locate(ctx context.Context) (model.Coordinate, error) {
	close(l.started)
	<-l.release
	return l.coord, nil
}

func TestTracker_Refresh_UnknownWhileInFlight(t *testing.T) {
	t.Parallel()
	loc := &blockingLocator{started: make(chan struct{}), release: make(chan struct{}), coord: central.Center}
	tr := location.NewTracker(loc, zap.NewNop())

	done := make(chan model.LocationStatus)
	go func() {
		status, _ := tr.Refresh(context.Background(), &central)
		done <- status
	}()

	<-loc.started
	assert.Equal(t, model.LocationUnknown, tr.Status())
	close(loc.release)
	assert.Equal(t, model.LocationInRange, <-done)
	assert.Equal(t, model.LocationInRange, tr.Status())
}

func TestDeviceLocator(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l := location.NewDeviceLocator(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	_, err := l.Locate(ctx)
	require.ErrorIs(t, err, errs.ErrLocationUnavailable)
	assert.False(t, l.PermissionGranted())

	l.Report(central.Center, false)
	_, err = l.Locate(ctx)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	l.Report(central.Center, true)
	got, err := l.Locate(ctx)
	require.NoError(t, err)
	assert.Equal(t, central.Center, got)
	assert.True(t, l.PermissionGranted())

	now = now.Add(2 * time.Minute)
	_, err = l.Locate(ctx)
	require.ErrorIs(t, err, errs.ErrLocationUnavailable)
}

// Package location derives a geofence status for the selected library from
// device fixes.
package location

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/geofence"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

type reading struct {
	status   model.LocationStatus
	distance *float64
	library  *model.Library
}

type Tracker struct {
	locator Locator
	log     *zap.Logger

	// refreshMu serialises acquisitions; mu guards the readable fields.
	refreshMu  sync.Mutex
	mu         sync.RWMutex
	target     *model.Library
	cur        reading
	permission bool
}

func NewTracker(locator Locator, log *zap.Logger) *Tracker {
	return &Tracker{
		locator: locator,
		log:     log.Named("tracker"),
		cur:     reading{status: model.LocationUnknown},
	}
}

// SetTarget makes lib the active geofence and refreshes against it.
func (t *Tracker) SetTarget(ctx context.Context, lib model.Library) (model.LocationStatus, error) {
	t.mu.Lock()
	l := lib
	t.target = &l
	t.mu.Unlock()
	return t.Refresh(ctx, &l)
}

func (t *Tracker) Target() (model.Library, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.target == nil {
		return model.Library{}, false
	}
	return *t.target, true
}

// Refresh acquires a fix and evaluates it against lib, or against the
// current target when lib is nil. On failure the previous reading is kept
// and the error returned.
func (t *Tracker) Refresh(ctx context.Context, lib *model.Library) (model.LocationStatus, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	t.mu.Lock()
	if lib == nil {
		lib = t.target
	}
	prev := t.cur
	if lib == nil {
		t.cur = reading{status: model.LocationUnknown}
		t.mu.Unlock()
		return model.LocationUnknown, nil
	}
	target := *lib
	t.cur = reading{status: model.LocationUnknown, library: &target}
	t.mu.Unlock()

	pos, err := t.locator.Locate(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.cur = prev
		if errors.Is(err, errs.ErrPermissionDenied) {
			t.permission = false
		}
		t.log.Debug("refresh failed", zap.String("library", target.ID), zap.Error(err))
		if !errors.Is(err, errs.ErrPermissionDenied) && !errors.Is(err, errs.ErrLocationUnavailable) {
			err = errors.Wrap(errs.ErrLocationUnavailable, err.Error())
		}
		return prev.status, err
	}
	d, status := geofence.Evaluate(pos, target)
	t.permission = true
	t.cur = reading{status: status, distance: &d, library: &target}
	return status, nil
}

func (t *Tracker) Status() model.LocationStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cur.status
}

// DistanceMeters is nil until a fix has been evaluated.
func (t *Tracker) DistanceMeters() *float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.cur.distance == nil {
		return nil
	}
	d := *t.cur.distance
	return &d
}

func (t *Tracker) PermissionGranted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.permission
}

// Reading returns the last evaluation together with the library it was
// computed for.
func (t *Tracker) Reading() model.LocationReading {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r := model.LocationReading{
		Status:            t.cur.status,
		PermissionGranted: t.permission,
	}
	if t.cur.distance != nil {
		d := *t.cur.distance
		r.DistanceMeters = &d
	}
	if t.cur.library != nil {
		r.LibraryID = t.cur.library.ID
		r.RadiusMeters = t.cur.library.RadiusMeters
	}
	return r
}

// InRange refreshes against lib and reports whether the fix is inside its
// geofence. Used to re-verify presence when a break elapses.
func (t *Tracker) InRange(ctx context.Context, lib model.Library) (bool, error) {
	status, err := t.Refresh(ctx, &lib)
	if err != nil {
		return false, err
	}
	return status == model.LocationInRange, nil
}

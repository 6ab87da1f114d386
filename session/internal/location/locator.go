package location

import (
	"context"
	"sync"
	"time"

	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=locator.go -destination=mocks/mock.go

// Locator acquires the device's current coordinate.
type Locator interface {
	Locate(ctx context.Context) (model.Coordinate, error)
}

// Fix is a coordinate the device reported together with its permission state.
type Fix struct {
	Coordinate        model.Coordinate
	PermissionGranted bool
	ReportedAt        time.Time
}

// DeviceLocator serves the last fix the device pushed over HTTP.
type DeviceLocator struct {
	mu     sync.RWMutex
	fix    *Fix
	maxAge time.Duration
	now    func() time.Time
}

func NewDeviceLocator(maxAge time.Duration, now func() time.Time) *DeviceLocator {
	if now == nil {
		now = time.Now
	}
	return &DeviceLocator{maxAge: maxAge, now: now}
}

func (l *DeviceLocator) Report(coord model.Coordinate, permissionGranted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fix = &Fix{Coordinate: coord, PermissionGranted: permissionGranted, ReportedAt: l.now()}
}

func (l *DeviceLocator) Locate(ctx context.Context) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch {
	case l.fix == nil:
		return model.Coordinate{}, errs.ErrLocationUnavailable
	case !l.fix.PermissionGranted:
		return model.Coordinate{}, errs.ErrPermissionDenied
	case l.maxAge > 0 && l.now().Sub(l.fix.ReportedAt) > l.maxAge:
		return model.Coordinate{}, errs.ErrLocationUnavailable
	}
	return l.fix.Coordinate, nil
}

// PermissionGranted is false until the device has reported at least once.
func (l *DeviceLocator) PermissionGranted() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fix != nil && l.fix.PermissionGranted
}

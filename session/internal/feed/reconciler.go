package feed

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

// Dispatcher forwards seat events to the sessions holding bookings.
type Dispatcher interface {
	SeatStatusChanged(ev model.SeatEvent) int
}

type Reconciler struct {
	cache      *SeatCache
	dispatcher Dispatcher
	log        *zap.Logger
}

func NewReconciler(cache *SeatCache, dispatcher Dispatcher, log *zap.Logger) *Reconciler {
	return &Reconciler{
		cache:      cache,
		dispatcher: dispatcher,
		log:        log.Named("reconciler"),
	}
}

func (r *Reconciler) Handle(_ context.Context, ev model.SeatEvent) error {
	changed := r.cache.Apply(ev)
	forced := 0
	if r.dispatcher != nil {
		forced = r.dispatcher.SeatStatusChanged(ev)
	}
	if forced > 0 {
		r.log.Info("bookings expired by feed", zap.String("seat", ev.Seat.ID), zap.Int("count", forced))
	}
	r.log.Debug("seat event",
		zap.String("type", string(ev.Type)),
		zap.String("library", ev.Seat.LibraryID),
		zap.String("seat", ev.Seat.ID),
		zap.String("status", string(ev.Seat.Status)),
		zap.Bool("changed", changed))
	return nil
}

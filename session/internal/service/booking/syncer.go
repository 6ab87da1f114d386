package booking

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

// Syncer pushes timer-driven outcomes to the booking service in the
// background and keeps retrying while the service is unreachable.
type Syncer struct {
	svc      *Service
	log      *zap.Logger
	ctx      context.Context
	attempts int
	backoff  time.Duration
	wg       sync.WaitGroup
}

func NewSyncer(ctx context.Context, svc *Service, attempts int, backoff time.Duration, log *zap.Logger) *Syncer {
	if attempts < 1 {
		attempts = 1
	}
	return &Syncer{
		svc:      svc,
		log:      log.Named("syncer"),
		ctx:      ctx,
		attempts: attempts,
		backoff:  backoff,
	}
}

func (s *Syncer) Sync(o model.Outcome) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.enqueue(o)
	}()
}

// Wait blocks until every queued outcome is delivered or abandoned.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

func (s *Syncer) enqueue(o model.Outcome) {
	log := s.log.With(zap.String("user", o.UserID), zap.String("booking", o.BookingID), zap.String("status", string(o.Status)))
	for try := 1; ; try++ {
		err := s.push(o)
		if err == nil {
			log.Debug("outcome synced", zap.Int("try", try))
			return
		}
		if !errs.Retryable(err) {
			log.Warn("outcome rejected", zap.Error(err))
			return
		}
		if try >= s.attempts {
			log.Error("outcome sync abandoned", zap.Int("tries", try), zap.Error(err))
			return
		}
		log.Info("outcome sync retry", zap.Int("try", try), zap.Error(err))
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.backoff):
		}
	}
}

func (s *Syncer) push(o model.Outcome) error {
	ctx := s.ctx
	switch o.Status {
	case model.StatusNoShow, model.StatusExpired:
		return s.svc.Release(ctx, o.UserID, o.BookingID, o.SeatID, o.Status)
	case model.StatusCompleted:
		return s.svc.Complete(ctx, o.UserID, o.BookingID, o.SeatID)
	case model.StatusActive:
		return s.svc.EndBreak(ctx, o.UserID, o.BookingID)
	default:
		return errors.Errorf("no sync for status %q", o.Status)
	}
}

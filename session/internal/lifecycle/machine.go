// Package lifecycle owns a user's booking and drives it through check-in,
// breaks and expiry. Every command persists through BookingAPI before the
// local state changes; timer-driven transitions apply locally first and are
// reported through a Syncer.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/model"
	"github.com/Astemirdum/study-seats/session/internal/timer"
)

// ErrClosed is returned by commands after Close.
var ErrClosed = errors.New("session closed")

// Config holds the lifecycle windows.
type Config struct {
	CheckinWindow time.Duration
	MaxBreak      time.Duration
}

// DefaultConfig is a 15 minute check-in window and a 30 minute break cap.
func DefaultConfig() Config {
	return Config{
		CheckinWindow: 15 * time.Minute,
		MaxBreak:      30 * time.Minute,
	}
}

// Machine holds at most one booking for a user and owns its countdowns.
type Machine struct {
	userID string
	cfg    Config
	api    BookingAPI
	loc    LocationSource
	log    *zap.Logger

	presence Presence
	seats    SeatBoard
	syncer   Syncer
	onChange func(userID string, b *model.Booking)

	// mu is held for a whole command, persistence call included.
	mu      sync.Mutex
	engine  *timer.Engine
	booking *model.Booking
	library model.Library
	closed  bool

	fireCtx        context.Context
	breakAttempted bool
	effects        []func()
}

type Option func(m *Machine)

// WithPresence lets a fired break countdown re-check the device position itself.
func WithPresence(p Presence) Option {
	return func(m *Machine) { m.presence = p }
}

func WithSeatBoard(s SeatBoard) Option {
	return func(m *Machine) { m.seats = s }
}

func WithSyncer(s Syncer) Option {
	return func(m *Machine) { m.syncer = s }
}

// WithOnChange is called after every state change, outside the lock. b is nil
// once the booking was discarded.
func WithOnChange(fn func(userID string, b *model.Booking)) Option {
	return func(m *Machine) { m.onChange = fn }
}

// New returns an idle machine for userID.
func New(userID string, cfg Config, api BookingAPI, loc LocationSource, clock timer.Clock, log *zap.Logger, opts ...Option) *Machine {
	m := &Machine{
		userID:  userID,
		cfg:     cfg,
		api:     api,
		loc:     loc,
		log:     log.Named("machine").With(zap.String("user", userID)),
		engine:  timer.NewEngine(clock),
		fireCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) UserID() string { return m.userID }

// run executes fn under the lock and then the effects it queued.
func (m *Machine) run(fn func() error) error {
	m.mu.Lock()
	var err error
	if m.closed {
		err = ErrClosed
	} else {
		err = fn()
	}
	effects := m.effects
	m.effects = nil
	m.mu.Unlock()

	for _, e := range effects {
		e()
	}
	return err
}

func (m *Machine) status() model.Status {
	if m.booking == nil {
		return model.StatusNone
	}
	return m.booking.Status
}

func (m *Machine) held() bool {
	return m.booking != nil && m.booking.Status.IsHeld()
}

func (m *Machine) lookup(bookingID string) error {
	if m.booking == nil || m.booking.ID != bookingID {
		return errors.Wrap(errs.ErrNoSuchBooking, bookingID)
	}
	return nil
}

func (m *Machine) Create(ctx context.Context, seatID string, durationMinutes int, libraryID string) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if m.held() {
			return errs.ErrBookingAlreadyActive
		}
		lib, ok := m.loc.Target()
		if !ok || (libraryID != "" && lib.ID != libraryID) {
			return errs.ErrNoActiveLibrary
		}
		if durationMinutes < 1 {
			return errors.Wrapf(errs.ErrInvalidTransition, "duration %d", durationMinutes)
		}
		if m.seats != nil {
			if st, known := m.seats.SeatStatus(lib.ID, seatID); known && st != model.SeatAvailable {
				return errors.Wrap(errs.ErrSeatUnavailable, seatID)
			}
		}

		created, err := m.api.CreateBooking(ctx, seatID, durationMinutes, lib.ID)
		if err != nil {
			return err
		}
		m.library = lib
		m.booking = &model.Booking{
			ID:                created.ID,
			UserID:            m.userID,
			SeatID:            created.SeatID,
			LibraryID:         lib.ID,
			Status:            model.StatusPendingCheckin,
			StartTime:         created.StartTime,
			DurationMinutes:   durationMinutes,
			VerificationToken: created.VerificationToken,
		}
		m.armTimers()
		m.markSeat(model.SeatReserved)
		m.changed("created")
		out = *m.booking
		return nil
	})
	return out, err
}

// CheckIn trusts the tracker's last reading; the caller refreshes it first.
func (m *Machine) CheckIn(ctx context.Context, bookingID string) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if err := m.lookup(bookingID); err != nil {
			return err
		}
		switch st := m.booking.Status; st {
		case model.StatusPendingCheckin:
		case model.StatusActive, model.StatusOnBreak:
			return errs.ErrAlreadyCheckedIn
		case model.StatusNoShow:
			return errs.ErrWindowExpired
		default:
			return errors.Wrapf(errs.ErrInvalidTransition, "%s -> %s", st, model.StatusActive)
		}
		if m.booking.CheckedIn {
			return errs.ErrAlreadyCheckedIn
		}
		if c, ok := m.engine.Get(model.TimerCheckin); !ok || c.Fired() || !m.engine.Now().Before(c.Deadline()) {
			return errs.ErrWindowExpired
		}
		if err := m.checkRange(); err != nil {
			return err
		}

		if err := m.api.CheckIn(ctx, m.booking.ID, m.booking.SeatID); err != nil {
			return err
		}
		m.booking.Status = model.StatusActive
		m.booking.CheckedIn = true
		m.armTimers()
		m.markSeat(model.SeatOccupied)
		m.changed("checked in")
		out = *m.booking
		return nil
	})
	return out, err
}

func (m *Machine) checkRange() error {
	r := m.loc.Reading()
	if r.LibraryID != m.booking.LibraryID || r.DistanceMeters == nil {
		return errors.Wrap(errs.ErrNotInRange, "no location reading for library")
	}
	if r.Status != model.LocationInRange {
		return &errs.RangeError{DistanceMeters: *r.DistanceMeters, RadiusMeters: m.library.RadiusMeters}
	}
	return nil
}

func (m *Machine) StartBreak(ctx context.Context, minutes int) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if m.status() != model.StatusActive {
			return errs.ErrNotActive
		}
		if minutes < 1 {
			return errors.Wrapf(errs.ErrInvalidTransition, "break of %d minutes", minutes)
		}
		if time.Duration(minutes)*time.Minute > m.cfg.MaxBreak {
			return errs.ErrExceedsMaxBreak
		}

		if err := m.api.StartBreak(ctx, m.booking.ID, minutes); err != nil {
			return err
		}
		now := m.engine.Now()
		mins := minutes
		m.booking.Status = model.StatusOnBreak
		m.booking.BreakStart = &now
		m.booking.BreakMinutes = &mins
		m.armTimers()
		m.changed("break started")
		out = *m.booking
		return nil
	})
	return out, err
}

// EndBreak is the user returning early; no location check.
func (m *Machine) EndBreak(ctx context.Context) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if m.status() != model.StatusOnBreak {
			return errs.ErrNotOnBreak
		}
		if err := m.api.EndBreak(ctx, m.booking.ID); err != nil {
			return err
		}
		m.resumeFromBreak()
		m.changed("break ended")
		out = *m.booking
		return nil
	})
	return out, err
}

// CheckBreakExpiry settles an elapsed break with a fresh presence result.
func (m *Machine) CheckBreakExpiry(_ context.Context, inRange bool) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if m.status() != model.StatusOnBreak {
			return errs.ErrNotOnBreak
		}
		if !m.breakElapsed() {
			return errs.ErrBreakNotElapsed
		}
		m.settleBreak(inRange)
		out = *m.booking
		return nil
	})
	return out, err
}

func (m *Machine) breakElapsed() bool {
	if c, ok := m.engine.Get(model.TimerBreak); ok && c.Fired() {
		return true
	}
	deadline := m.booking.BreakDeadline()
	return !deadline.IsZero() && !m.engine.Now().Before(deadline)
}

func (m *Machine) settleBreak(inRange bool) {
	if inRange {
		m.resumeFromBreak()
		m.sync(model.StatusActive)
		m.changed("back from break")
		return
	}
	m.finish(model.StatusExpired, true)
}

func (m *Machine) resumeFromBreak() {
	m.booking.Status = model.StatusActive
	m.booking.BreakStart = nil
	m.booking.BreakMinutes = nil
	m.armTimers()
}

func (m *Machine) Cancel(ctx context.Context, bookingID string) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if err := m.lookup(bookingID); err != nil {
			return err
		}
		switch st := m.booking.Status; st {
		case model.StatusPendingCheckin, model.StatusActive:
		default:
			return errors.Wrapf(errs.ErrInvalidTransition, "%s -> %s", st, model.StatusCancelled)
		}
		if err := m.api.Cancel(ctx, m.booking.ID, m.booking.SeatID); err != nil {
			return err
		}
		m.finish(model.StatusCancelled, false)
		out = *m.booking
		return nil
	})
	return out, err
}

// Complete ends the session early at the user's request.
func (m *Machine) Complete(ctx context.Context, bookingID string) (model.Booking, error) {
	var out model.Booking
	err := m.run(func() error {
		if err := m.lookup(bookingID); err != nil {
			return err
		}
		switch st := m.booking.Status; st {
		case model.StatusActive, model.StatusOnBreak:
		default:
			return errors.Wrapf(errs.ErrInvalidTransition, "%s -> %s", st, model.StatusCompleted)
		}
		if err := m.api.Complete(ctx, m.booking.ID, m.booking.SeatID); err != nil {
			return err
		}
		m.finish(model.StatusCompleted, false)
		out = *m.booking
		return nil
	})
	return out, err
}

// Restore adopts a booking fetched from the server and rebuilds its timers
// from absolute deadlines. Deadlines that passed meanwhile fire on the next Tick.
func (m *Machine) Restore(b model.Booking, lib model.Library) error {
	return m.run(func() error {
		if m.held() && m.booking.ID != b.ID {
			return errs.ErrBookingAlreadyActive
		}
		restored := b
		if restored.UserID == "" {
			restored.UserID = m.userID
		}
		m.booking = &restored
		m.library = lib
		m.engine.CancelAll()
		m.armTimers()
		m.log.Info("booking restored", zap.String("id", b.ID), zap.String("status", string(b.Status)))
		return nil
	})
}

// Discard drops the booking without reporting it or touching the seat. It is
// used when the server says the booking is not the user's active one.
func (m *Machine) Discard() {
	_ = m.run(func() error {
		if m.booking == nil {
			return nil
		}
		m.log.Info("booking discarded", zap.String("id", m.booking.ID))
		m.booking = nil
		m.library = model.Library{}
		m.engine.CancelAll()
		if m.onChange != nil {
			m.effects = append(m.effects, func() { m.onChange(m.userID, nil) })
		}
		return nil
	})
}

// CheckinOpen reports whether bookingID awaits check-in inside its window.
func (m *Machine) CheckinOpen(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookup(bookingID) != nil || m.booking.Status != model.StatusPendingCheckin {
		return false
	}
	c, ok := m.engine.Get(model.TimerCheckin)
	return ok && !c.Fired() && m.engine.Now().Before(c.Deadline())
}

// Tick advances the countdowns. ctx bounds the presence check of an elapsed break.
func (m *Machine) Tick(ctx context.Context) int {
	var n int
	_ = m.run(func() error {
		m.fireCtx = ctx
		m.breakAttempted = false
		defer func() { m.fireCtx = context.Background() }()

		n = m.engine.Tick()
		// an elapsed break whose presence check failed is retried every tick
		if m.presence != nil && !m.breakAttempted && m.status() == model.StatusOnBreak {
			if c, ok := m.engine.Get(model.TimerBreak); ok && c.Fired() {
				m.verifyPresence()
			}
		}
		return nil
	})
	return n
}

// OnSeatStatus applies a feed event. An available seat under a held booking
// means the server released it, so the booking expires without a release call.
func (m *Machine) OnSeatStatus(ev model.SeatEvent) bool {
	var forced bool
	_ = m.run(func() error {
		if !m.held() || ev.Type == model.SeatDelete || ev.Seat.Status != model.SeatAvailable {
			return nil
		}
		if ev.Seat.ID != m.booking.SeatID || (ev.Seat.LibraryID != "" && ev.Seat.LibraryID != m.booking.LibraryID) {
			return nil
		}
		if !ev.At.IsZero() && ev.At.Before(m.booking.StartTime) {
			return nil
		}
		m.log.Warn("seat released by server", zap.String("seat", ev.Seat.ID))
		m.finish(model.StatusExpired, false)
		forced = true
		return nil
	})
	return forced
}

// Close stops every timer. The machine rejects commands afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.CancelAll()
	m.closed = true
}

func (m *Machine) Status() model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

func (m *Machine) Booking() (model.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.booking == nil {
		return model.Booking{}, false
	}
	return *m.booking, true
}

func (m *Machine) Library() model.Library {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.library
}

func (m *Machine) ActiveTimers() []model.TimerKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Kinds()
}

// armTimers makes the registered countdowns match the current status.
func (m *Machine) armTimers() {
	b := m.booking
	switch b.Status {
	case model.StatusPendingCheckin:
		m.engine.CancelExcept(model.TimerCheckin)
		if _, ok := m.engine.Get(model.TimerCheckin); !ok {
			m.engine.Start(model.TimerCheckin, b.StartTime.Add(m.cfg.CheckinWindow), m.onCheckinElapsed)
		}
	case model.StatusActive:
		m.engine.CancelExcept(model.TimerSession)
		m.ensureSession()
	case model.StatusOnBreak:
		m.engine.CancelExcept(model.TimerSession, model.TimerBreak)
		m.ensureSession()
		if _, ok := m.engine.Get(model.TimerBreak); !ok {
			m.engine.Start(model.TimerBreak, b.BreakDeadline(), m.onBreakElapsed)
		}
	default:
		m.engine.CancelAll()
	}
}

func (m *Machine) ensureSession() {
	if _, ok := m.engine.Get(model.TimerSession); !ok {
		m.engine.Start(model.TimerSession, m.booking.SessionDeadline(), m.onSessionElapsed)
	}
}

func (m *Machine) onCheckinElapsed(time.Time) {
	if m.status() == model.StatusPendingCheckin {
		m.finish(model.StatusNoShow, true)
	}
}

func (m *Machine) onSessionElapsed(time.Time) {
	switch m.status() {
	case model.StatusActive, model.StatusOnBreak:
		m.finish(model.StatusCompleted, true)
	}
}

func (m *Machine) onBreakElapsed(time.Time) {
	if m.status() != model.StatusOnBreak {
		return
	}
	if m.presence == nil {
		m.log.Info("break elapsed, awaiting presence check", zap.String("id", m.booking.ID))
		return
	}
	m.verifyPresence()
}

func (m *Machine) verifyPresence() {
	m.breakAttempted = true
	inRange, err := m.presence.InRange(m.fireCtx, m.library)
	if err != nil {
		m.log.Warn("break presence check", zap.String("id", m.booking.ID), zap.Error(err))
		return
	}
	m.settleBreak(inRange)
}

// finish moves to a terminal status and stops every timer. report sends the
// outcome to the server for timer-driven transitions.
func (m *Machine) finish(to model.Status, report bool) {
	m.booking.Status = to
	m.booking.BreakStart = nil
	m.booking.BreakMinutes = nil
	m.engine.CancelAll()
	m.markSeat(model.SeatAvailable)
	if report {
		m.sync(to)
	}
	m.changed(string(to))
}

func (m *Machine) sync(to model.Status) {
	if m.syncer == nil {
		return
	}
	o := model.Outcome{UserID: m.userID, BookingID: m.booking.ID, SeatID: m.booking.SeatID, Status: to}
	m.effects = append(m.effects, func() { m.syncer.Sync(o) })
}

func (m *Machine) markSeat(status model.SeatStatus) {
	if m.seats == nil {
		return
	}
	libraryID, seatID := m.booking.LibraryID, m.booking.SeatID
	m.effects = append(m.effects, func() { m.seats.MarkOptimistic(libraryID, seatID, status) })
}

func (m *Machine) changed(event string) {
	b := *m.booking
	m.log.Info("booking "+event,
		zap.String("id", b.ID),
		zap.String("seat", b.SeatID),
		zap.String("status", string(b.Status)))
	if m.onChange != nil {
		m.effects = append(m.effects, func() { m.onChange(m.userID, &b) })
	}
}

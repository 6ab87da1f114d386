// Package service keeps one lifecycle session per user and connects it to
// the booking service, the seat feed and the snapshot cache.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/config"
	"github.com/Astemirdum/study-seats/session/internal/cache"
	"github.com/Astemirdum/study-seats/session/internal/errs"
	"github.com/Astemirdum/study-seats/session/internal/feed"
	"github.com/Astemirdum/study-seats/session/internal/lifecycle"
	"github.com/Astemirdum/study-seats/session/internal/location"
	"github.com/Astemirdum/study-seats/session/internal/model"
	"github.com/Astemirdum/study-seats/session/internal/timer"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

const (
	qrSize          = 256
	snapshotTimeout = 2 * time.Second
)

type BookingClient interface {
	GetLibrary(ctx context.Context, libraryID string) (model.Library, error)
	ListSeats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error)
	GetActiveBooking(ctx context.Context, userID string) (model.Booking, error)
	ForUser(userID string) lifecycle.BookingAPI
}

type SnapshotStore interface {
	SaveBooking(ctx context.Context, userID string, b *model.Booking, lib model.Library) error
	LoadBooking(ctx context.Context, userID string) (cache.BookingSnapshot, error)
	SaveSeats(ctx context.Context, libraryID, floorID string, seats []model.Seat) error
	LoadSeats(ctx context.Context, libraryID, floorID string) (cache.SeatsSnapshot, error)
}

var _ feed.Dispatcher = (*Service)(nil)

type session struct {
	machine *lifecycle.Machine
	tracker *location.Tracker
	device  *location.DeviceLocator

	hydrateMu    sync.Mutex
	hydrated     bool
	fromSnapshot bool
}

type seatsKey struct {
	library string
	floor   string
}

type Service struct {
	log    *zap.Logger
	cfg    config.Lifecycle
	client BookingClient
	store  SnapshotStore
	seats  *feed.SeatCache
	syncer lifecycle.Syncer
	clock  timer.Clock

	mu        sync.Mutex
	sessions  map[string]*session
	libraries map[string]model.Library
	fetched   map[seatsKey]time.Time
}

type Option func(s *Service)

// WithStore enables the redis snapshot fallback.
func WithStore(store SnapshotStore) Option {
	return func(s *Service) { s.store = store }
}

func WithSyncer(syncer lifecycle.Syncer) Option {
	return func(s *Service) { s.syncer = syncer }
}

func WithClock(clock timer.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func New(log *zap.Logger, cfg config.Lifecycle, client BookingClient, seats *feed.SeatCache, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		cfg:       cfg,
		client:    client,
		seats:     seats,
		clock:     timer.SystemClock{},
		sessions:  make(map[string]*session),
		libraries: make(map[string]model.Library),
		fetched:   make(map[seatsKey]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) session(ctx context.Context, userID string) (*session, error) {
	if userID == "" {
		return nil, errs.ErrUserName
	}
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = s.newSession(userID)
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	s.hydrate(ctx, userID, sess)
	return sess, nil
}

func (s *Service) newSession(userID string) *session {
	device := location.NewDeviceLocator(s.cfg.LocationMaxAge, s.clock.Now)
	tracker := location.NewTracker(device, s.log.With(zap.String("user", userID)))
	sess := &session{tracker: tracker, device: device}

	opts := []lifecycle.Option{
		lifecycle.WithPresence(tracker),
		lifecycle.WithSeatBoard(s.seats),
		lifecycle.WithOnChange(func(userID string, b *model.Booking) {
			s.saveSnapshot(userID, b, sess.machine.Library())
		}),
	}
	if s.syncer != nil {
		opts = append(opts, lifecycle.WithSyncer(s.syncer))
	}
	cfg := lifecycle.Config{CheckinWindow: s.cfg.CheckinWindow(), MaxBreak: s.cfg.MaxBreak()}
	sess.machine = lifecycle.New(userID, cfg, s.client.ForUser(userID), tracker, s.clock, s.log, opts...)
	return sess
}

// hydrate adopts the user's active booking once. A booking restored from
// the snapshot is kept only until the booking service answers.
func (s *Service) hydrate(ctx context.Context, userID string, sess *session) {
	sess.hydrateMu.Lock()
	defer sess.hydrateMu.Unlock()
	if sess.hydrated {
		return
	}
	if !sess.fromSnapshot && sess.machine.Status().IsHeld() {
		sess.hydrated = true
		return
	}

	b, err := s.client.GetActiveBooking(ctx, userID)
	switch {
	case err == nil:
		lib, libErr := s.library(ctx, b.LibraryID)
		if libErr != nil {
			s.log.Warn("hydrate library", zap.String("user", userID), zap.Error(libErr))
			return
		}
		if sess.fromSnapshot {
			sess.machine.Discard()
		}
		s.restore(ctx, sess, b, lib)
		sess.hydrated, sess.fromSnapshot = true, false
	case errors.Is(err, errs.ErrNoSuchBooking):
		if sess.fromSnapshot {
			sess.machine.Discard()
		}
		sess.hydrated, sess.fromSnapshot = true, false
	case errs.Retryable(err) && s.store != nil:
		snap, snapErr := s.store.LoadBooking(ctx, userID)
		if snapErr != nil {
			s.log.Info("no booking snapshot", zap.String("user", userID), zap.Error(snapErr))
			return
		}
		if snap.Booking != nil && snap.Booking.Status.IsHeld() {
			s.log.Info("booking restored from snapshot",
				zap.String("user", userID),
				zap.Time("fetchedAt", snap.FetchedAt))
			s.restore(ctx, sess, *snap.Booking, snap.Library)
			sess.fromSnapshot = true
		}
		// the server stays authoritative; ask it again on the next call
	default:
		s.log.Warn("hydrate", zap.String("user", userID), zap.Error(err))
	}
}

func (s *Service) restore(ctx context.Context, sess *session, b model.Booking, lib model.Library) {
	if cur, ok := sess.tracker.Target(); !ok || cur.ID != lib.ID {
		// no fix yet right after startup
		_, _ = sess.tracker.SetTarget(ctx, lib) //nolint:errcheck
	}
	if err := sess.machine.Restore(b, lib); err != nil {
		s.log.Warn("restore", zap.String("booking", b.ID), zap.Error(err))
	}
}

func (s *Service) saveSnapshot(userID string, b *model.Booking, lib model.Library) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.store.SaveBooking(ctx, userID, b, lib); err != nil {
		s.log.Warn("save booking snapshot", zap.String("user", userID), zap.Error(err))
	}
}

func (s *Service) library(ctx context.Context, libraryID string) (model.Library, error) {
	lib, err := s.client.GetLibrary(ctx, libraryID)
	if err == nil {
		s.mu.Lock()
		s.libraries[libraryID] = lib
		s.mu.Unlock()
		return lib, nil
	}
	if errs.Retryable(err) {
		s.mu.Lock()
		cached, ok := s.libraries[libraryID]
		s.mu.Unlock()
		if ok {
			return cached, nil
		}
	}
	return model.Library{}, err
}

// SelectLibrary makes libraryID the user's geofence target and loads its seat map.
// A failed location fix does not fail the selection; the reading says why.
func (s *Service) SelectLibrary(ctx context.Context, userID, libraryID string) (model.Selection, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.Selection{}, err
	}
	lib, err := s.library(ctx, libraryID)
	if err != nil {
		return model.Selection{}, err
	}
	if _, err := sess.tracker.SetTarget(ctx, lib); err != nil {
		s.log.Debug("select library: no fix", zap.String("user", userID), zap.Error(err))
	}
	seats, err := s.Seats(ctx, libraryID, "")
	if err != nil {
		s.log.Warn("select library: seats", zap.String("library", libraryID), zap.Error(err))
		seats = nil
	}
	return model.Selection{Library: lib, Location: sess.tracker.Reading(), Seats: seats}, nil
}

// Seats serves the cached seat map and refetches it once it is older than
// SeatsMaxAge. Without the booking service the redis snapshot seeds the cache.
func (s *Service) Seats(ctx context.Context, libraryID, floorID string) ([]model.Seat, error) {
	key := seatsKey{library: libraryID, floor: floorID}
	now := s.clock.Now()
	s.mu.Lock()
	fetchedAt, ok := s.fetched[key]
	s.mu.Unlock()
	if ok && !cache.Stale(fetchedAt, s.cfg.SeatsMaxAge, now) {
		return s.seats.Seats(libraryID, floorID), nil
	}

	seats, err := s.client.ListSeats(ctx, libraryID, floorID)
	if err == nil {
		s.seats.Load(libraryID, floorID, seats)
		s.mu.Lock()
		s.fetched[key] = now
		s.mu.Unlock()
		if s.store != nil {
			if err := s.store.SaveSeats(ctx, libraryID, floorID, seats); err != nil {
				s.log.Warn("save seats snapshot", zap.String("library", libraryID), zap.Error(err))
			}
		}
		return s.seats.Seats(libraryID, floorID), nil
	}
	if !errs.Retryable(err) {
		return nil, err
	}
	if ok {
		return s.seats.Seats(libraryID, floorID), nil
	}
	if s.store == nil {
		return nil, err
	}
	snap, snapErr := s.store.LoadSeats(ctx, libraryID, floorID)
	if snapErr != nil {
		return nil, err
	}
	s.log.Info("seats from snapshot", zap.String("library", libraryID), zap.Time("fetchedAt", snap.FetchedAt))
	s.seats.Load(libraryID, floorID, snap.Seats)
	s.mu.Lock()
	s.fetched[key] = snap.FetchedAt
	s.mu.Unlock()
	return s.seats.Seats(libraryID, floorID), nil
}

// ReportLocation stores a device fix and re-evaluates it against the target.
func (s *Service) ReportLocation(ctx context.Context, userID string, pos model.Coordinate, permissionGranted bool) (model.LocationReading, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.LocationReading{}, err
	}
	sess.device.Report(pos, permissionGranted)
	if _, ok := sess.tracker.Target(); !ok {
		return sess.tracker.Reading(), nil
	}
	_, err = sess.tracker.Refresh(ctx, nil)
	return sess.tracker.Reading(), err
}

func (s *Service) RefreshLocation(ctx context.Context, userID string) (model.LocationReading, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.LocationReading{}, err
	}
	if _, ok := sess.tracker.Target(); !ok {
		return model.LocationReading{}, errs.ErrNoActiveLibrary
	}
	_, err = sess.tracker.Refresh(ctx, nil)
	return sess.tracker.Reading(), err
}

func (s *Service) CreateBooking(ctx context.Context, userID string, req model.CreateBookingRequest) (model.BookingView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.BookingView{}, err
	}
	if _, err := sess.machine.Create(ctx, req.SeatID, req.Duration, req.LibraryID); err != nil {
		return model.BookingView{}, err
	}
	return sess.machine.View(), nil
}

func (s *Service) Current(ctx context.Context, userID string) (model.BookingView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.BookingView{}, err
	}
	return sess.machine.View(), nil
}

// VerificationQR renders the held booking's verification token as a PNG.
func (s *Service) VerificationQR(ctx context.Context, userID string) ([]byte, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	b, ok := sess.machine.Booking()
	if !ok || !b.Status.IsHeld() || b.VerificationToken == "" {
		return nil, errs.ErrNoSuchBooking
	}
	png, err := qrcode.Encode(b.VerificationToken, qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "qrcode.Encode")
	}
	return png, nil
}

// CheckIn takes a fresh fix for the booked library before checking in.
func (s *Service) CheckIn(ctx context.Context, userID, bookingID string) (model.BookingView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.BookingView{}, err
	}
	// a lapsed window is reported as such, whatever the device says
	if sess.machine.CheckinOpen(bookingID) {
		lib := sess.machine.Library()
		if _, err := sess.tracker.Refresh(ctx, &lib); err != nil {
			return model.BookingView{}, err
		}
	}
	if _, err := sess.machine.CheckIn(ctx, bookingID); err != nil {
		return model.BookingView{}, err
	}
	return sess.machine.View(), nil
}

func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (model.BookingView, error) {
	return s.command(ctx, userID, func(m *lifecycle.Machine) error {
		_, err := m.Cancel(ctx, bookingID)
		return err
	})
}

func (s *Service) Complete(ctx context.Context, userID, bookingID string) (model.BookingView, error) {
	return s.command(ctx, userID, func(m *lifecycle.Machine) error {
		_, err := m.Complete(ctx, bookingID)
		return err
	})
}

func (s *Service) StartBreak(ctx context.Context, userID string, minutes int) (model.BookingView, error) {
	return s.command(ctx, userID, func(m *lifecycle.Machine) error {
		_, err := m.StartBreak(ctx, minutes)
		return err
	})
}

func (s *Service) EndBreak(ctx context.Context, userID string) (model.BookingView, error) {
	return s.command(ctx, userID, func(m *lifecycle.Machine) error {
		_, err := m.EndBreak(ctx)
		return err
	})
}

// CheckBreak settles an elapsed break. With inRange nil the device position
// is re-verified against the booked library.
func (s *Service) CheckBreak(ctx context.Context, userID string, inRange *bool) (model.BookingView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.BookingView{}, err
	}
	var present bool
	if inRange != nil {
		present = *inRange
	} else {
		if sess.machine.Status() != model.StatusOnBreak {
			return model.BookingView{}, errs.ErrNotOnBreak
		}
		if present, err = sess.tracker.InRange(ctx, sess.machine.Library()); err != nil {
			return model.BookingView{}, err
		}
	}
	if _, err := sess.machine.CheckBreakExpiry(ctx, present); err != nil {
		return model.BookingView{}, err
	}
	return sess.machine.View(), nil
}

func (s *Service) command(ctx context.Context, userID string, fn func(m *lifecycle.Machine) error) (model.BookingView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return model.BookingView{}, err
	}
	if err := fn(sess.machine); err != nil {
		return model.BookingView{}, err
	}
	return sess.machine.View(), nil
}

func (s *Service) machines() []*lifecycle.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*lifecycle.Machine, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.machine)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID() < out[j].UserID() })
	return out
}

// Tick advances every session's countdowns and returns how many fired.
func (s *Service) Tick(ctx context.Context) int {
	var fired int
	for _, m := range s.machines() {
		fired += m.Tick(ctx)
	}
	return fired
}

// Run ticks every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Tick(ctx); n > 0 {
				s.log.Debug("timers fired", zap.Int("count", n))
			}
		}
	}
}

// SeatStatusChanged forwards a feed event to every session and returns how
// many bookings it forced to expire.
func (s *Service) SeatStatusChanged(ev model.SeatEvent) int {
	var forced int
	for _, m := range s.machines() {
		if m.OnSeatStatus(ev) {
			forced++
		}
	}
	return forced
}

// Close stops every session's timers.
func (s *Service) Close() {
	for _, m := range s.machines() {
		m.Close()
	}
}

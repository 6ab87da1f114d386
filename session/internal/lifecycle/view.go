package lifecycle

import (
	"math"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

// View derives the countdowns the UI renders. A countdown that does not
// apply to the current status is nil.
func (m *Machine) View() model.BookingView {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.engine.Now()
	v := model.BookingView{
		Status:       m.status(),
		ActiveTimers: m.engine.Kinds(),
		At:           now,
	}
	if m.booking == nil {
		return v
	}
	b := *m.booking
	v.Booking = &b

	seconds := func(kind model.TimerKind) *int {
		c, ok := m.engine.Get(kind)
		if !ok {
			return nil
		}
		s := int(math.Ceil(c.RemainingAt(now).Seconds()))
		return &s
	}
	switch b.Status {
	case model.StatusPendingCheckin:
		v.CheckinTimeRemaining = seconds(model.TimerCheckin)
	case model.StatusActive:
		v.SecondsLeft = seconds(model.TimerSession)
	case model.StatusOnBreak:
		v.SecondsLeft = seconds(model.TimerSession)
		v.BreakTimeRemaining = seconds(model.TimerBreak)
	}
	return v
}

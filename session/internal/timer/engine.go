package timer

import (
	"sort"
	"time"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

// tie-break for equal deadlines: the session end supersedes a break.
var kindOrder = map[model.TimerKind]int{
	model.TimerCheckin: 0,
	model.TimerSession: 1,
	model.TimerBreak:   2,
}

// Engine owns one countdown per kind. A fired countdown stays registered
// until it is cancelled or replaced.
type Engine struct {
	clock  Clock
	timers map[model.TimerKind]*Countdown
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		clock:  clock,
		timers: make(map[model.TimerKind]*Countdown),
	}
}

func (e *Engine) Now() time.Time { return e.clock.Now() }

// Start replaces any countdown of the same kind.
func (e *Engine) Start(kind model.TimerKind, deadline time.Time, fn func(now time.Time)) *Countdown {
	e.Cancel(kind)
	c := NewCountdown(e.clock.Now(), deadline, fn)
	e.timers[kind] = c
	return c
}

func (e *Engine) Cancel(kind model.TimerKind) {
	if c, ok := e.timers[kind]; ok {
		c.Cancel()
		delete(e.timers, kind)
	}
}

func (e *Engine) CancelAll() {
	for kind := range e.timers {
		e.Cancel(kind)
	}
}

// CancelExcept leaves only the given kinds registered.
func (e *Engine) CancelExcept(keep ...model.TimerKind) {
	for kind := range e.timers {
		if !containsKind(keep, kind) {
			e.Cancel(kind)
		}
	}
}

func (e *Engine) Get(kind model.TimerKind) (*Countdown, bool) {
	c, ok := e.timers[kind]
	return c, ok
}

// Kinds lists registered countdowns in stable order.
func (e *Engine) Kinds() []model.TimerKind {
	kinds := make([]model.TimerKind, 0, len(e.timers))
	for kind := range e.timers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kindOrder[kinds[i]] < kindOrder[kinds[j]] })
	return kinds
}

// Tick advances every running countdown to the current time and fires the
// due ones in deadline order. A countdown cancelled or replaced by an
// earlier callback of the same tick does not fire.
func (e *Engine) Tick() int {
	now := e.clock.Now()
	type due struct {
		kind model.TimerKind
		c    *Countdown
	}
	var ready []due
	for kind, c := range e.timers {
		if c.advance(now) {
			ready = append(ready, due{kind: kind, c: c})
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		di, dj := ready[i].c.deadline, ready[j].c.deadline
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return kindOrder[ready[i].kind] < kindOrder[ready[j].kind]
	})

	n := 0
	for _, d := range ready {
		if cur, ok := e.timers[d.kind]; !ok || cur != d.c {
			continue
		}
		d.c.fire(now)
		n++
	}
	return n
}

func containsKind(kinds []model.TimerKind, k model.TimerKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Package feed keeps the live seat map and reconciles it with the seat
// events the booking service publishes.
package feed

import (
	"sort"
	"sync"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

type entry struct {
	seat model.Seat
	// optimistic marks a local write no feed event has confirmed yet.
	optimistic bool
}

// SeatCache is keyed by library id, then seat id. Events apply last write
// wins in arrival order.
type SeatCache struct {
	mu   sync.RWMutex
	libs map[string]map[string]*entry
}

func NewSeatCache() *SeatCache {
	return &SeatCache{libs: make(map[string]map[string]*entry)}
}

func (c *SeatCache) library(libraryID string) map[string]*entry {
	seats, ok := c.libs[libraryID]
	if !ok {
		seats = make(map[string]*entry)
		c.libs[libraryID] = seats
	}
	return seats
}

// Load replaces the seats of one floor (all floors when floorID is empty)
// with a fetched snapshot. Unconfirmed optimistic statuses survive the load.
func (c *SeatCache) Load(libraryID, floorID string, seats []model.Seat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lib := c.library(libraryID)
	for id, e := range lib {
		if floorID == "" || e.seat.FloorID == floorID {
			if !e.optimistic {
				delete(lib, id)
			}
		}
	}
	for _, s := range seats {
		if e, ok := lib[s.ID]; ok && e.optimistic {
			status := e.seat.Status
			e.seat = s
			e.seat.Status = status
			continue
		}
		lib[s.ID] = &entry{seat: s}
	}
}

// Apply merges one feed event and reports whether the cache changed.
func (c *SeatCache) Apply(ev model.SeatEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	lib := c.library(ev.Seat.LibraryID)
	switch ev.Type {
	case model.SeatDelete:
		if _, ok := lib[ev.Seat.ID]; !ok {
			return false
		}
		delete(lib, ev.Seat.ID)
		return true
	case model.SeatInsert, model.SeatUpdate:
		if e, ok := lib[ev.Seat.ID]; ok {
			merged := mergeSeat(e.seat, ev.Seat)
			changed := e.optimistic || !equalSeat(e.seat, merged)
			e.seat = merged
			e.optimistic = false
			return changed
		}
		lib[ev.Seat.ID] = &entry{seat: ev.Seat}
		return true
	}
	return false
}

// MarkOptimistic writes a local status until the next feed event for the seat.
func (c *SeatCache) MarkOptimistic(libraryID, seatID string, status model.SeatStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lib := c.library(libraryID)
	e, ok := lib[seatID]
	if !ok {
		e = &entry{seat: model.Seat{ID: seatID, LibraryID: libraryID}}
		lib[seatID] = e
	}
	e.seat.Status = status
	e.optimistic = true
}

func (c *SeatCache) SeatStatus(libraryID, seatID string) (model.SeatStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.libs[libraryID][seatID]
	if !ok {
		return "", false
	}
	return e.seat.Status, true
}

func (c *SeatCache) Seat(libraryID, seatID string) (model.Seat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.libs[libraryID][seatID]
	if !ok {
		return model.Seat{}, false
	}
	return e.seat, true
}

// Seats lists a floor (or the whole library) ordered by floor and label.
func (c *SeatCache) Seats(libraryID, floorID string) []model.Seat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Seat, 0, len(c.libs[libraryID]))
	for _, e := range c.libs[libraryID] {
		if floorID == "" || e.seat.FloorID == floorID {
			out = append(out, e.seat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FloorID != out[j].FloorID {
			return out[i].FloorID < out[j].FloorID
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// mergeSeat keeps known fields the event left empty.
func mergeSeat(cur, upd model.Seat) model.Seat {
	if upd.Label == "" {
		upd.Label = cur.Label
	}
	if upd.FloorID == "" {
		upd.FloorID = cur.FloorID
	}
	if upd.RoomID == "" {
		upd.RoomID = cur.RoomID
	}
	if upd.Amenities == nil {
		upd.Amenities = cur.Amenities
	}
	if upd.Status == "" {
		upd.Status = cur.Status
	}
	return upd
}

func equalSeat(a, b model.Seat) bool {
	if a.ID != b.ID || a.Label != b.Label || a.LibraryID != b.LibraryID ||
		a.FloorID != b.FloorID || a.RoomID != b.RoomID || a.Status != b.Status ||
		len(a.Amenities) != len(b.Amenities) {
		return false
	}
	for i := range a.Amenities {
		if a.Amenities[i] != b.Amenities[i] {
			return false
		}
	}
	return true
}

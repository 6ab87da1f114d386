package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/pkg/kafka"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func seat(id string, status model.SeatStatus) model.Seat {
	return model.Seat{ID: id, Label: id, LibraryID: "central", FloorID: "1", RoomID: "quiet", Status: status}
}

func TestSeatCache_LastWriteWins(t *testing.T) {
	t.Parallel()
	c := NewSeatCache()
	c.Load("central", "1", []model.Seat{seat("A-41", model.SeatAvailable), seat("A-42", model.SeatAvailable)})

	assert.True(t, c.Apply(model.SeatEvent{Type: model.SeatUpdate, Seat: model.Seat{ID: "A-42", LibraryID: "central", Status: model.SeatReserved}}))
	assert.True(t, c.Apply(model.SeatEvent{Type: model.SeatUpdate, Seat: model.Seat{ID: "A-42", LibraryID: "central", Status: model.SeatOccupied}}))
	assert.False(t, c.Apply(model.SeatEvent{Type: model.SeatUpdate, Seat: model.Seat{ID: "A-42", LibraryID: "central", Status: model.SeatOccupied}}))

	s, ok := c.Seat("central", "A-42")
	require.True(t, ok)
	assert.Equal(t, model.SeatOccupied, s.Status)
	// fields the event omitted are kept
	assert.Equal(t, "quiet", s.RoomID)
	assert.Equal(t, "1", s.FloorID)
}

func TestSeatCache_InsertDelete(t *testing.T) {
	t.Parallel()
	c := NewSeatCache()
	assert.True(t, c.Apply(model.SeatEvent{Type: model.SeatInsert, Seat: seat("B-10", model.SeatAvailable)}))
	_, ok := c.SeatStatus("central", "B-10")
	assert.True(t, ok)

	assert.True(t, c.Apply(model.SeatEvent{Type: model.SeatDelete, Seat: model.Seat{ID: "B-10", LibraryID: "central"}}))
	assert.False(t, c.Apply(model.SeatEvent{Type: model.SeatDelete, Seat: model.Seat{ID: "B-10", LibraryID: "central"}}))
	_, ok = c.SeatStatus("central", "B-10")
	assert.False(t, ok)
}

func TestSeatCache_OptimisticOverwrittenByFeed(t *testing.T) {
	t.Parallel()
	c := NewSeatCache()
	c.Load("central", "1", []model.Seat{seat("A-42", model.SeatAvailable)})

	c.MarkOptimistic("central", "A-42", model.SeatReserved)
	st, _ := c.SeatStatus("central", "A-42")
	assert.Equal(t, model.SeatReserved, st)

	// a snapshot fetched before the write does not flicker the seat back
	c.Load("central", "1", []model.Seat{seat("A-42", model.SeatAvailable)})
	st, _ = c.SeatStatus("central", "A-42")
	assert.Equal(t, model.SeatReserved, st)

	// the next feed event is authoritative even when it disagrees
	assert.True(t, c.Apply(model.SeatEvent{Type: model.SeatUpdate, Seat: model.Seat{ID: "A-42", LibraryID: "central", Status: model.SeatAvailable}}))
	st, _ = c.SeatStatus("central", "A-42")
	assert.Equal(t, model.SeatAvailable, st)

	c.Load("central", "1", []model.Seat{seat("A-42", model.SeatOccupied)})
	st, _ = c.SeatStatus("central", "A-42")
	assert.Equal(t, model.SeatOccupied, st)
}

func TestSeatCache_SeatsByFloor(t *testing.T) {
	t.Parallel()
	c := NewSeatCache()
	s2 := seat("B-10", model.SeatAvailable)
	s2.FloorID = "2"
	c.Load("central", "", []model.Seat{s2, seat("A-42", model.SeatAvailable), seat("A-41", model.SeatOccupied)})

	all := c.Seats("central", "")
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A-41", "A-42", "B-10"}, []string{all[0].ID, all[1].ID, all[2].ID})

	first := c.Seats("central", "1")
	assert.Len(t, first, 2)
	assert.Empty(t, c.Seats("science", ""))

	// loading floor 1 again leaves floor 2 alone
	c.Load("central", "1", []model.Seat{seat("A-41", model.SeatAvailable)})
	assert.Len(t, c.Seats("central", ""), 2)
}

func encode(t *testing.T, ev kafka.SeatEvent) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func TestDecodeSeatEvent(t *testing.T) {
	t.Parallel()
	good := kafka.SeatEvent{
		Type: kafka.SeatUpdate,
		Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central", Status: "occupied"},
		At:   t0,
	}
	ev, err := DecodeSeatEvent(encode(t, good))
	require.NoError(t, err)
	assert.Equal(t, model.SeatUpdate, ev.Type)
	assert.Equal(t, model.SeatOccupied, ev.Seat.Status)
	assert.True(t, t0.Equal(ev.At))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("{")},
		{name: "unknown type", data: encode(t, kafka.SeatEvent{Type: "upsert", Seat: good.Seat})},
		{name: "unknown status", data: encode(t, kafka.SeatEvent{Type: kafka.SeatUpdate, Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central", Status: "broken"}})},
		{name: "no library", data: encode(t, kafka.SeatEvent{Type: kafka.SeatUpdate, Seat: kafka.SeatPayload{ID: "A-42", Status: "available"}})},
		{name: "no seat id", data: encode(t, kafka.SeatEvent{Type: kafka.SeatInsert, Seat: kafka.SeatPayload{LibraryID: "central", Status: "available"}})},
		{name: "update without status", data: encode(t, kafka.SeatEvent{Type: kafka.SeatUpdate, Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central"}})},
		{name: "delete with unknown status", data: encode(t, kafka.SeatEvent{Type: kafka.SeatDelete, Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central", Status: "gone"}})},
	}
	for _, tt := range tests {
		_, err := DecodeSeatEvent(tt.data)
		assert.ErrorIs(t, err, ErrBadEvent, tt.name)
	}

	_, err = DecodeSeatEvent(encode(t, kafka.SeatEvent{Type: kafka.SeatDelete, Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central"}}))
	assert.NoError(t, err)
}

type countingDispatcher struct {
	events []model.SeatEvent
}

func (d *countingDispatcher) SeatStatusChanged(ev model.SeatEvent) int {
	d.events = append(d.events, ev)
	return 1
}

func TestReconciler_Handle(t *testing.T) {
	t.Parallel()
	c := NewSeatCache()
	d := &countingDispatcher{}
	r := NewReconciler(c, d, zap.NewNop())

	ev := model.SeatEvent{Type: model.SeatUpdate, Seat: seat("A-42", model.SeatAvailable), At: t0}
	require.NoError(t, r.Handle(context.Background(), ev))
	require.Len(t, d.events, 1)
	st, ok := c.SeatStatus("central", "A-42")
	require.True(t, ok)
	assert.Equal(t, model.SeatAvailable, st)
}

type fakeSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32                      { return nil }
func (s *fakeSession) MemberID() string                                { return "m1" }
func (s *fakeSession) GenerationID() int32                             { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)         {}
func (s *fakeSession) Commit()                                         {}
func (s *fakeSession) ResetOffset(string, int32, int64, string)        {}
func (s *fakeSession) Context() context.Context                        { return s.ctx }
func (s *fakeSession) MarkMessage(m *sarama.ConsumerMessage, _ string) { s.marked = append(s.marked, m) }

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return kafka.SeatTopic }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	var got []model.SeatEvent
	consumer := NewConsumer(func(_ context.Context, ev model.SeatEvent) error {
		got = append(got, ev)
		return nil
	}, zap.NewNop())

	noAt := kafka.SeatEvent{Type: kafka.SeatUpdate, Seat: kafka.SeatPayload{ID: "A-42", LibraryID: "central", Status: "available"}}
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 3)}
	claim.ch <- &sarama.ConsumerMessage{Topic: kafka.SeatTopic, Key: []byte("central"), Value: []byte("garbage")}
	claim.ch <- &sarama.ConsumerMessage{Topic: kafka.SeatTopic, Key: []byte("central"), Value: encode(t, noAt), Timestamp: t0}
	close(claim.ch)

	sess := &fakeSession{ctx: context.Background()}
	require.NoError(t, consumer.ConsumeClaim(sess, claim))

	assert.Len(t, sess.marked, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "A-42", got[0].Seat.ID)
	assert.True(t, t0.Equal(got[0].At))
}

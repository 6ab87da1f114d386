package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/Astemirdum/study-seats/booking/internal/model"
	"github.com/Astemirdum/study-seats/pkg/kafka"
)

type SeatPublisher interface {
	PublishSeat(ctx context.Context, typ kafka.SeatEventType, seat model.Seat) error
}

func NewSeatPublisher(producer sarama.SyncProducer, topic string) SeatPublisher {
	return &seatPublisher{
		producer: producer,
		topic:    topic,
	}
}

type seatPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func (p *seatPublisher) PublishSeat(_ context.Context, typ kafka.SeatEventType, seat model.Seat) error {
	data, err := json.Marshal(seatEvent(typ, seat))
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(seat.LibraryID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

func seatEvent(typ kafka.SeatEventType, seat model.Seat) kafka.SeatEvent {
	return kafka.SeatEvent{
		Type: typ,
		Seat: kafka.SeatPayload{
			ID:        seat.ID,
			Label:     seat.Label,
			LibraryID: seat.LibraryID,
			FloorID:   seat.FloorID,
			RoomID:    seat.RoomID,
			Status:    string(seat.Status),
			Amenities: seat.Amenities,
		},
		At: time.Now().UTC(),
	}
}

package feed

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

type handleFunc func(ctx context.Context, ev model.SeatEvent) error

// Consumer is the sarama group handler for the seat topic.
type Consumer struct {
	handle handleFunc
	log    *zap.Logger
}

func NewConsumer(handle handleFunc, log *zap.Logger) *Consumer {
	return &Consumer{
		handle: handle,
		log:    log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			ev, err := DecodeSeatEvent(message.Value)
			if err != nil {
				consumer.log.Error("decode", zap.Error(err), zap.ByteString("value", message.Value))
				session.MarkMessage(message, "")
				continue
			}
			if ev.At.IsZero() {
				ev.At = message.Timestamp
			}
			if err := consumer.handle(session.Context(), ev); err != nil {
				consumer.log.Error("consumer.handle", zap.Error(err))
				continue
			}
			consumer.log.Debug("Message claimed:", zap.String("key", string(message.Key)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

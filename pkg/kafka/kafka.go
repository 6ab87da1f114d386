package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	SeatTopic            = "seats"
	SessionConsumerGroup = "session"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume re-joins the group after every rebalance until ctx is done.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Error("consumer group", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type SeatEventType string

const (
	SeatInsert SeatEventType = "insert"
	SeatUpdate SeatEventType = "update"
	SeatDelete SeatEventType = "delete"
)

// SeatEvent is the live-feed message, keyed by library id.
type SeatEvent struct {
	Type SeatEventType `json:"type" validate:"oneof=insert update delete"`
	Seat SeatPayload   `json:"seat"`
	At   time.Time     `json:"at"`
}

// SeatPayload carries no status on delete.
type SeatPayload struct {
	ID        string   `json:"id" validate:"required"`
	Label     string   `json:"label,omitempty"`
	LibraryID string   `json:"libraryId" validate:"required"`
	FloorID   string   `json:"floorId,omitempty"`
	RoomID    string   `json:"roomId,omitempty"`
	Status    string   `json:"status" validate:"omitempty,oneof=available reserved occupied"`
	Amenities []string `json:"amenities,omitempty"`
}

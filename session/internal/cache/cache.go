// Package cache keeps client-local snapshots in redis so a session can be
// rebuilt while the booking service is unreachable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

var ErrMiss = errors.New("cache miss")

type Config struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"SNAPSHOT_TTL" default:"24h"`
}

// NewRedisClient pings the server so misconfiguration fails at startup.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return client, nil
}

type BookingSnapshot struct {
	Booking   *model.Booking `json:"booking"`
	Library   model.Library  `json:"library"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

type SeatsSnapshot struct {
	Seats     []model.Seat `json:"seats"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// Stale reports whether a snapshot fetched at fetchedAt is older than maxAge.
func Stale(fetchedAt time.Time, maxAge time.Duration, now time.Time) bool {
	return now.Sub(fetchedAt) > maxAge
}

func BookingKey(userID string) string {
	return fmt.Sprintf("session:booking:%s", userID)
}

func SeatsKey(libraryID, floorID string) string {
	if floorID == "" {
		floorID = "all"
	}
	return fmt.Sprintf("session:seats:%s:%s", libraryID, floorID)
}

// client is the part of redis.Cmdable the store uses.
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Store struct {
	rdb client
	ttl time.Duration
	now func() time.Time
	log *zap.Logger
}

func NewStore(rdb client, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
		now: time.Now,
		log: log.Named("cache"),
	}
}

func (s *Store) SaveBooking(ctx context.Context, userID string, b *model.Booking, lib model.Library) error {
	return s.set(ctx, BookingKey(userID), BookingSnapshot{Booking: b, Library: lib, FetchedAt: s.now().UTC()})
}

func (s *Store) LoadBooking(ctx context.Context, userID string) (BookingSnapshot, error) {
	var snap BookingSnapshot
	err := s.get(ctx, BookingKey(userID), &snap)
	return snap, err
}

func (s *Store) SaveSeats(ctx context.Context, libraryID, floorID string, seats []model.Seat) error {
	return s.set(ctx, SeatsKey(libraryID, floorID), SeatsSnapshot{Seats: seats, FetchedAt: s.now().UTC()})
}

func (s *Store) LoadSeats(ctx context.Context, libraryID, floorID string) (SeatsSnapshot, error) {
	var snap SeatsSnapshot
	err := s.get(ctx, SeatsKey(libraryID, floorID), &snap)
	return snap, err
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Warn("redis set", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

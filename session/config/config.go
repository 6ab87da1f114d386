package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/study-seats/pkg/kafka"
	"github.com/Astemirdum/study-seats/pkg/logger"
	"github.com/Astemirdum/study-seats/session/internal/cache"
)

type HTTPServer struct {
	Host         string        `envconfig:"SESSION_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"SESSION_HTTP_PORT" default:"8070"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE" default:"10s"`
}

type BookingHTTPServer struct {
	Host    string        `envconfig:"BOOKING_SERVICE_HOST" default:"localhost"`
	Port    string        `envconfig:"BOOKING_SERVICE_PORT" default:"8060"`
	Timeout time.Duration `envconfig:"BOOKING_SERVICE_TIMEOUT" default:"5s"`
}

// Lifecycle holds the booking rules and the background cadence.
type Lifecycle struct {
	CheckinWindowMinutes int           `envconfig:"CHECKIN_WINDOW_MINUTES" default:"15"`
	MaxBreakMinutes      int           `envconfig:"MAX_BREAK_MINUTES" default:"30"`
	TickInterval         time.Duration `envconfig:"TICK_INTERVAL" default:"1s"`
	LocationMaxAge       time.Duration `envconfig:"LOCATION_MAX_AGE" default:"2m"`
	SyncAttempts         int           `envconfig:"SYNC_ATTEMPTS" default:"10"`
	SyncBackoff          time.Duration `envconfig:"SYNC_BACKOFF" default:"10s"`
	SeatsMaxAge          time.Duration `envconfig:"SEATS_MAX_AGE" default:"30s"`
}

func (l Lifecycle) CheckinWindow() time.Duration {
	return time.Duration(l.CheckinWindowMinutes) * time.Minute
}

func (l Lifecycle) MaxBreak() time.Duration {
	return time.Duration(l.MaxBreakMinutes) * time.Minute
}

type Config struct {
	Server         HTTPServer
	BookingService BookingHTTPServer
	Kafka          kafka.Config
	Redis          cache.Config
	Lifecycle      Lifecycle
	Log            logger.Log
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	c := *cfg
	c.Redis.Password = "***"
	jscfg, _ := json.MarshalIndent(c, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

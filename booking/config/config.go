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
	"github.com/Astemirdum/study-seats/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `envconfig:"BOOKING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"BOOKING_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE" default:"10s"`
}

// Booking holds lifecycle limits enforced on the server side.
type Booking struct {
	MaxBreakMinutes      int           `envconfig:"MAX_BREAK_MINUTES" default:"30"`
	CheckinWindowMinutes int           `envconfig:"CHECKIN_WINDOW_MINUTES" default:"15"`
	SweepInterval        time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	SweepGrace           time.Duration `envconfig:"SWEEP_GRACE" default:"2m"`
}

func (b Booking) CheckinWindow() time.Duration {
	return time.Duration(b.CheckinWindowMinutes) * time.Minute
}

type Config struct {
	Server   HTTPServer
	Database postgres.DB
	Kafka    kafka.Config
	Booking  Booking
	Log      logger.Log
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
	c.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(c, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

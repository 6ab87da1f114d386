package app

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/study-seats/booking/config"
	"github.com/Astemirdum/study-seats/booking/internal/handler"
	"github.com/Astemirdum/study-seats/booking/internal/repository"
	"github.com/Astemirdum/study-seats/booking/internal/server"
	"github.com/Astemirdum/study-seats/booking/internal/service"
	"github.com/Astemirdum/study-seats/booking/migrations"
	"github.com/Astemirdum/study-seats/pkg/kafka"
	"github.com/Astemirdum/study-seats/pkg/logger"
	"github.com/Astemirdum/study-seats/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "booking")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo bookings %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer %v", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}()

	svc := service.NewService(repo, service.NewSeatPublisher(producer, kafka.SeatTopic), cfg.Booking.MaxBreakMinutes, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		svc.RunSweeper(gCtx, cfg.Booking.SweepInterval, cfg.Booking.CheckinWindow(), cfg.Booking.SweepGrace)
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("booking service", zap.Error(err))
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

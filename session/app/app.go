package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/study-seats/pkg/kafka"
	"github.com/Astemirdum/study-seats/pkg/logger"
	"github.com/Astemirdum/study-seats/session/config"
	"github.com/Astemirdum/study-seats/session/internal/cache"
	"github.com/Astemirdum/study-seats/session/internal/feed"
	"github.com/Astemirdum/study-seats/session/internal/handler"
	"github.com/Astemirdum/study-seats/session/internal/server"
	"github.com/Astemirdum/study-seats/session/internal/service"
	"github.com/Astemirdum/study-seats/session/internal/service/booking"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "session")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bookingSvc := booking.NewService(log, cfg.BookingService)
	syncer := booking.NewSyncer(ctx, bookingSvc, cfg.Lifecycle.SyncAttempts, cfg.Lifecycle.SyncBackoff, log)
	seats := feed.NewSeatCache()
	opts := []service.Option{service.WithSyncer(syncer)}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// the service runs without offline snapshots
		log.Warn("redis unavailable", zap.Error(err))
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("redis.Close", zap.Error(err))
			}
		}()
		opts = append(opts, service.WithStore(cache.NewStore(rdb, cfg.Redis.TTL, log)))
	}

	svc := service.New(log, cfg.Lifecycle, bookingSvc, seats, opts...)
	defer svc.Close()

	group, err := kafka.NewConsumer(cfg.Kafka, kafka.SessionConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka consumer %v", err)
	}
	defer func() {
		if err := group.Close(); err != nil {
			log.Error("consumer.Close", zap.Error(err))
		}
	}()
	reconciler := feed.NewReconciler(seats, svc, log)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ", zap.String("addr", srv.Addr()))
		return srv.Run()
	})
	g.Go(func() error {
		return svc.Run(gCtx, cfg.Lifecycle.TickInterval)
	})
	g.Go(func() error {
		return kafka.Consume(gCtx, group, feed.NewConsumer(reconciler.Handle, log), log, kafka.SeatTopic)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("session service", zap.Error(err))
		return err
	}
	syncer.Wait()
	log.Info("Graceful shutdown finished")
	return nil
}

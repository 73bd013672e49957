package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lifedrop/internal/config"
	"lifedrop/internal/mqhandler"
	"lifedrop/pkg/logger"
	"lifedrop/pkg/mq"
	"lifedrop/pkg/redis"
	"lifedrop/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Env)
	defer log.Sync()

	log.Info("Starting lifedrop notifier...",
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// Redis 去重
	rdb, err := redis.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to init redis", zap.Error(err))
	}
	defer rdb.Close()
	deduper := util.NewDeduper(rdb, cfg.DedupTTL(), log)

	// DLQ publisher
	dlq, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init DLQ publisher", zap.Error(err))
	}
	defer dlq.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MQ Consumer for donor.alerted
	alertHandler := mqhandler.NewDonorAlertedHandler(mqhandler.LogSMSSender{Logger: log}, deduper, log)
	alertConsumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Notifier.Queue, mq.RoutingKeyDonorAlerted, log)
	if err != nil {
		log.Fatal("Failed to init donor alert consumer", zap.Error(err))
	}
	defer alertConsumer.Close()
	alertConsumer.SetHandler(alertHandler.Handle)
	alertConsumer.SetDLQPublisher(dlq)

	go func() {
		log.Info("Starting donor.alerted consumer...", zap.String("queue", cfg.Notifier.Queue))
		if err := alertConsumer.StartConsuming(ctx); err != nil && ctx.Err() == nil {
			log.Fatal("Donor alert consumer failed", zap.Error(err))
		}
	}()

	// MQ Consumer for notification.recorded
	auditHandler := mqhandler.NewNotificationRecordedHandler(deduper, log)
	auditConsumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Notifier.AuditQueue, mq.RoutingKeyNotificationRecorded, log)
	if err != nil {
		log.Fatal("Failed to init notification audit consumer", zap.Error(err))
	}
	defer auditConsumer.Close()
	auditConsumer.SetHandler(auditHandler.Handle)
	auditConsumer.SetDLQPublisher(dlq)

	go func() {
		log.Info("Starting notification.recorded consumer...", zap.String("queue", cfg.Notifier.AuditQueue))
		if err := auditConsumer.StartConsuming(ctx); err != nil && ctx.Err() == nil {
			log.Fatal("Notification audit consumer failed", zap.Error(err))
		}
	}()

	log.Info("lifedrop notifier is running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down lifedrop notifier...")
	cancel()
	log.Info("lifedrop notifier shutdown complete")
}

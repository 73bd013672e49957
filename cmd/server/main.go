package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/config"
	"lifedrop/internal/handler"
	"lifedrop/internal/httpserver"
	"lifedrop/internal/repository"
	"lifedrop/internal/service/chat"
	"lifedrop/internal/service/lifedrop"
	"lifedrop/internal/service/notify"
	"lifedrop/internal/storage"
	"lifedrop/pkg/circuitbreaker"
	"lifedrop/pkg/db"
	"lifedrop/pkg/eventloop"
	"lifedrop/pkg/logger"
	"lifedrop/pkg/mq"
	"lifedrop/pkg/outbox"
	"lifedrop/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Env)
	defer log.Sync()

	log.Info("Starting lifedrop server...",
		zap.String("env", cfg.Env),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("mq_enabled", cfg.MQ.Enabled),
	)

	// Storage
	kv, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to init storage", zap.Error(err))
	}
	gw := storage.NewGateway(kv, log)

	// Event loop，所有领域状态只在这个 goroutine 上修改
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loop := eventloop.New(log, 256)
	go loop.Run(loopCtx)

	// MQ outbox（可选）
	var events lifedrop.EventPublisher
	var publisher *mq.Publisher
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcherDone := make(chan struct{})
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		dispatcher := outbox.NewDispatcher(publisher, 1024, log)
		go func() {
			defer close(dispatcherDone)
			dispatcher.Start(dispatcherCtx)
		}()
		events = dispatcher
		log.Info("MQ outbox dispatcher started", zap.String("exchange", mq.ExchangeName))
	} else {
		close(dispatcherDone)
	}

	// Domain
	donors := repository.NewDonorStore(gw, cfg.Storage.DonorsKey, log)
	receivers := repository.NewReceiverStore(gw, cfg.Storage.ReceiversKey, log)
	notes := notify.NewLog(loop, gw, notify.Options{
		Key:       cfg.Storage.NotificationsKey,
		FeedLimit: cfg.Notification.FeedLimit,
		Expiry:    cfg.NotificationExpiry(),
	}, log)
	chatSim := chat.NewSimulator(loop, cfg.ChatReplyDelay(), log)

	hub := handler.NewHub(log)
	notes.AddSink(hub)
	if events != nil {
		notes.AddSink(notify.NewMQMirror(events, log))
	}

	svc := lifedrop.NewService(donors, receivers, notes, chatSim, lifedrop.Options{
		SeedDemoDonors: cfg.Storage.SeedDemoDonors,
		Events:         events,
	}, log)
	if err := loop.Do(loopCtx, func() { svc.Start(loopCtx) }); err != nil {
		log.Fatal("Failed to start service", zap.Error(err))
	}

	loop.Every(loopCtx, cfg.LiveUpdateInterval(), func() { svc.SimulateLiveUpdate(loopCtx) })

	// Admin
	gate, err := auth.NewAdminGate(cfg.Admin.Key, cfg.JWT.Secret, cfg.AdminTokenTTL(), log)
	if err != nil {
		log.Fatal("Failed to init admin gate", zap.Error(err))
	}

	// HTTP Server
	router := httpserver.NewRouter(httpserver.Handlers{
		Donors:        handler.NewDonorHandler(loop, svc, log),
		Requests:      handler.NewRequestHandler(loop, svc, log),
		Notifications: handler.NewNotificationHandler(loop, svc, hub, log),
		Actions:       handler.NewActionHandler(loop, svc, gate, log),
		Chat:          handler.NewChatHandler(loop, svc, log),
		Support:       handler.NewSupportHandler(svc, log),
		Admin:         handler.NewAdminHandler(loop, svc, gate, log),
	}, gate, gw.Ping, log)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("lifedrop server is fully initialized and running")

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down lifedrop server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// websocket 连接是 hijacked 的，Shutdown 不会等它们
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// 最后一次落盘
	var flushErr error
	if err := loop.Do(shutdownCtx, func() { flushErr = svc.Flush(shutdownCtx) }); err != nil {
		log.Error("Failed to run final flush", zap.Error(err))
	} else if flushErr != nil {
		log.Error("Final flush failed", zap.Error(flushErr))
	}
	stopLoop()

	log.Info("Stopping MQ outbox dispatcher...")
	stopDispatcher()
	<-dispatcherDone
	if publisher != nil {
		publisher.Close()
	}

	if err := gw.Close(); err != nil {
		log.Error("Failed to close storage", zap.Error(err))
	}

	log.Info("lifedrop server shutdown complete")
}

// openStorage builds the KV backend selected by storage.backend. Network
// backends are wrapped in a circuit breaker.
func openStorage(cfg *config.Config, log *zap.Logger) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case "memory":
		log.Warn("Using in-memory storage, data is lost on restart")
		return storage.NewMemoryKV(), nil

	case "file":
		kv, err := storage.NewFileKV(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		log.Info("Using file storage", zap.String("dir", cfg.Storage.Dir))
		return kv, nil

	case "redis":
		rdb, err := redis.NewRedisClient(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return storage.WithBreaker(storage.NewRedisKV(rdb), newBreaker("redis", log)), nil

	case "postgres":
		pool, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		kv := storage.NewPostgresKV(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return storage.WithBreaker(kv, newBreaker("postgres", log)), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newBreaker(name string, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	cbCfg := circuitbreaker.DefaultConfig()
	cbCfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Storage circuit breaker state changed",
			zap.String("backend", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return circuitbreaker.NewCircuitBreaker(cbCfg)
}

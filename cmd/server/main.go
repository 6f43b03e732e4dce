package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/famcal/backend/api/handler"
	"github.com/famcal/backend/internal/config"
	"github.com/famcal/backend/internal/infrastructure/buffer"
	"github.com/famcal/backend/internal/infrastructure/monitor"
	pgInfra "github.com/famcal/backend/internal/infrastructure/postgres"
	redisInfra "github.com/famcal/backend/internal/infrastructure/redis"
	"github.com/famcal/backend/internal/middleware"
	"github.com/famcal/backend/internal/notify"
	"github.com/famcal/backend/internal/router"
	"github.com/famcal/backend/internal/services"
	"github.com/famcal/backend/internal/services/lifecycle"
	"github.com/famcal/backend/internal/services/reminder"
	"github.com/famcal/backend/internal/services/watch"
	"github.com/famcal/backend/pkg/httpcontext"
	"github.com/famcal/backend/pkg/logger"
	"github.com/famcal/backend/repository/postgres"
	redisRepo "github.com/famcal/backend/repository/redis"
	"github.com/famcal/backend/usecase"
	activityUC "github.com/famcal/backend/usecase/activity"
	authUC "github.com/famcal/backend/usecase/auth"
	chatUC "github.com/famcal/backend/usecase/chat"
	checklistUC "github.com/famcal/backend/usecase/checklist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	location, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		zapLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reminder.Timezone), zap.Error(err))
	}
	clock := func() time.Time { return time.Now().In(location) }

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	var bufferStore *buffer.Store
	if cfg.Buffer.Enabled {
		bufferStore, err = buffer.Open(cfg.Buffer.Path, "pending_writes")
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.Register("buffer", func(ctx context.Context) error {
			return bufferStore.Close()
		})
	}

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	activityRepo := postgres.NewActivityRepository(pool)
	fixedRepo := postgres.NewFixedActivityRepository(pool)
	completionRepo := postgres.NewCompletionRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, 24*time.Hour)
	feed := redisRepo.NewChangeFeed(redisClient, zapLogger)

	var opBuffer usecase.OperationBuffer
	if cfg.Buffer.Enabled {
		bufferProcessor := services.NewBufferProcessor(
			bufferStore,
			mon,
			activityRepo,
			fixedRepo,
			completionRepo,
			messageRepo,
			feed,
			zapLogger,
			services.ProcessorConfig{
				Interval:   cfg.Buffer.SyncInterval,
				BatchSize:  50,
				MaxRetries: cfg.Buffer.MaxRetry,
			},
		)
		bufferProcessor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			bufferProcessor.Stop(ctx)
			return nil
		})
		opBuffer = services.NewBufferBridge(bufferProcessor)
	}

	hub := watch.New(watch.Config{
		Feed:        feed,
		Activities:  activityRepo,
		Fixed:       fixedRepo,
		Completions: completionRepo,
		Messages:    messageRepo,
		Clock:       clock,
		Timeout:     cfg.Context.RequestTimeout,
		Logger:      zapLogger,
	})
	if err := hub.Start(appCtx); err != nil {
		zapLogger.Fatal("snapshot hub failed to start", zap.Error(err))
	}
	manager.Register("snapshot_hub", func(ctx context.Context) error {
		return hub.Stop()
	})

	var sink notify.Notifier
	switch cfg.Reminder.Notifier {
	case "off":
		sink = notify.Disabled{}
	case "webhook":
		sink = notify.NewWebhookNotifier(cfg.Reminder.WebhookURL, 5*time.Second)
	default:
		sink = notify.NewLogNotifier(zapLogger)
	}

	evaluator := reminder.NewEvaluator(reminder.EvaluatorConfig{
		Source:  hub,
		Ledger:  reminder.NewLedger(),
		Sink:    sink,
		Horizon: cfg.Reminder.Horizon,
		Title:   cfg.Reminder.Title,
		Clock:   clock,
		Logger:  zapLogger,
	})
	scheduler := reminder.NewScheduler(evaluator, cfg.Reminder.TickInterval, zapLogger)
	scheduler.Start()
	manager.Register("reminder_scheduler", func(ctx context.Context) error {
		scheduler.Stop(ctx)
		return nil
	})

	activityUseCase := activityUC.New(activityRepo, fixedRepo, feed, opBuffer, zapLogger)
	checklistUseCase := checklistUC.New(completionRepo, feed, opBuffer, hub, clock, zapLogger)
	chatUseCase := chatUC.New(messageRepo, feed, opBuffer, hub, clock, zapLogger)
	authUseCase := authUC.New(sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, time.Hour),
		Activity:  apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger, location),
		Checklist: apiHandler.NewChecklistHandler(checklistUseCase, ctxAdapter, zapLogger),
		Chat:      apiHandler.NewChatHandler(chatUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.MemberAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

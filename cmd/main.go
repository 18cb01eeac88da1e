package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/dispatch"
	"otp-delivery-service/internal/domain"
	"otp-delivery-service/internal/handler"
	"otp-delivery-service/internal/provider"
	"otp-delivery-service/internal/queue"
	"otp-delivery-service/internal/repository"
	"otp-delivery-service/internal/router"
	"otp-delivery-service/internal/server"
	"otp-delivery-service/internal/service"
	"otp-delivery-service/pkg/cache"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// pgx pool
	dbpool, err := pgxpool.New(context.Background(), cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer dbpool.Close()

	// redis, shared between the job queue and the template cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	defer rdb.Close()
	rcache := cache.NewCacheWithClient(rdb)

	// repos
	attemptRepo := repository.NewAttemptRepo(dbpool)
	customerRepo := repository.NewCustomerRepo(dbpool)
	templateRepo := repository.NewTemplateRepo(dbpool, rcache)
	failureRepo := repository.NewFailureRepo(dbpool)

	// delivery pipeline
	q := queue.NewRedisQueue(rdb, logger, cfg.QueueLeaseTTL, cfg.QueuePoll)
	registry := provider.NewRegistry(
		provider.NewDoveSoftSMS(cfg.DoveSoft, cfg.ProviderTimeout),
		provider.NewDoveSoftEmail(cfg.DoveSoft, cfg.ProviderTimeout),
		provider.NewInfobipSMS(cfg.Infobip, cfg.ProviderTimeout),
		provider.NewInfobipEmail(cfg.Infobip, cfg.ProviderTimeout),
		provider.NewNetcoreEmail(cfg.Netcore, cfg.ProviderTimeout),
		provider.NewSMTPEmail(cfg.SMTP),
	)
	auditor := dispatch.NewAuditor(failureRepo, logger)
	dispatcher := dispatch.NewDispatcher(q, registry, templateRepo, auditor, logger, cfg)

	// otp engine
	otpSvc := service.NewOTPService(attemptRepo, customerRepo, dispatcher, logger, cfg)

	// http
	otpHandler := handler.NewOTPHandler(otpSvc, logger)
	notifHandler := handler.NewNotificationHandler(dispatcher, logger)
	r := chi.NewRouter()
	router.SetupRoutes(r, otpHandler, notifHandler)
	srv := server.New(cfg.HTTPAddr, r)

	// workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	q.StartReclaimer(workerCtx, []domain.Channel{
		domain.ChannelSMS, domain.ChannelSMSRetry,
		domain.ChannelEmail, domain.ChannelEmailRetry,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
		stopWorkers()
		dispatcher.Wait()
	case err := <-errCh:
		stopWorkers()
		logger.Fatal("http server failed", zap.Error(err))
	}
}

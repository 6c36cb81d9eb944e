package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickmeet-api/core/cache"
	"quickmeet-api/core/config"
	"quickmeet-api/core/database"
	"quickmeet-api/core/logger"
	"quickmeet-api/core/middleware"
	"quickmeet-api/modules/chatroom"
	"quickmeet-api/modules/location"
	"quickmeet-api/modules/meetup"
	"quickmeet-api/modules/sweeper"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the whole service: config, database, redis, HTTP modules,
// the asynq worker and the sweep schedule. Blocks until shutdown.
func Run() error {
	if err := godotenv.Load(); err != nil {
		// .env is optional; real deployments use the environment
		logger.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Env)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	cacheClient, err := cache.InitCache(cfg.Redis)
	if err != nil {
		// the cache is an accelerator; run degraded without it
		logger.Warn("Running without redis cache", "error", err)
		cacheClient = nil
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())

	mw := middleware.NewMiddleware()
	e.Use(mw.RequestLogger())

	// Modules, leaf-first: location feeds meetup, meetup feeds chatroom,
	// both feed the sweeper.
	resolver, bucketer := location.Init(&db, cfg.MetroTablePath)
	meetupSvc := meetup.Init(e, &db, mw, resolver, bucketer, cacheClient)
	chatroomSvc := chatroom.Init(e, &db, mw, meetupSvc, cfg.Sweep.ChatroomTTL)

	// Background worker and schedule.
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	mux := asynq.NewServeMux()
	sweeper.Init(mux, &db, meetupSvc, chatroomSvc, cacheClient, cfg.Sweep.Interval)

	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 2})
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:AsynqWorker", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpt, nil)
	cronspec := fmt.Sprintf("@every %s", cfg.Sweep.Interval)
	if _, err := scheduler.Register(cronspec, sweeper.NewExpirySweepTask()); err != nil {
		return fmt.Errorf("register sweep schedule: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Server:AsynqScheduler", err)
		}
	}()

	// Serve until interrupted, then drain.
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Port, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

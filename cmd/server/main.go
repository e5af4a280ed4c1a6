package main

import (
	"context"

	"github.com/gheider394-beep/2-sub000/internal/app"
	"github.com/gheider394-beep/2-sub000/internal/cache"
	"github.com/gheider394-beep/2-sub000/internal/config"
	"github.com/gheider394-beep/2-sub000/internal/db"
	"github.com/gheider394-beep/2-sub000/internal/logger"
	"github.com/gheider394-beep/2-sub000/internal/notify"
	"github.com/gheider394-beep/2-sub000/internal/repository"
	"github.com/gheider394-beep/2-sub000/internal/server"
	"github.com/gheider394-beep/2-sub000/internal/service/ideas"
	"github.com/gheider394-beep/2-sub000/internal/service/reactions"
	"github.com/gheider394-beep/2-sub000/internal/session"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		return
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Session guard and async notification dispatcher
	guard := session.NewGuard(redisCache, cfg.SessionTTL())
	notifier := notify.NewQueue(repository.NewNotificationRepository(database), log)
	defer notifier.Close()

	appCtx := app.New(database, redisCache, log, guard, notifier)

	registrars := []server.Registrar{
		reactions.NewRegistrar(appCtx),
		ideas.NewRegistrar(appCtx),
	}

	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
	log.Info("starting gRPC server", "addr", addr)

	if err := server.StartGRPCServer(cfg, registrars...); err != nil {
		log.Error("failed to start gRPC server", "err", err)
	}
}

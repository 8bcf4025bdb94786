// Command server runs the user-manager HTTP service.
//
// Startup order: config → logger → mongo (with index bootstrap) → redis →
// seed data → audit dispatcher → router. Shutdown drains the HTTP server
// first, then stops the dispatcher and closes the stores.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/interfac/user-manager/internal/api"
	"github.com/interfac/user-manager/internal/core/service"
	mongodb "github.com/interfac/user-manager/internal/infrastructure/db/mongo"
	redisdb "github.com/interfac/user-manager/internal/infrastructure/db/redis"
	"github.com/interfac/user-manager/internal/infrastructure/queue"
	"github.com/interfac/user-manager/internal/pkg/config"
	"github.com/interfac/user-manager/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	privilegeRepo := mongodb.NewPrivilegeRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	userCache := redisdb.NewUserCache(rdb, log)

	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	userService := service.NewUserService(userRepo, roleRepo, dispatcher, userCache, log)
	authService := service.NewAuthService(userService, cfg.JWTSecret, cfg.TokenTTL, log)

	seeder := service.NewSeeder(userService, roleRepo, privilegeRepo, log)
	if err := seeder.Run(ctx, service.RootCredentials{
		Username: cfg.Seed.RootUsername,
		Password: cfg.Seed.RootPassword,
		Email:    cfg.Seed.RootEmail,
	}); err != nil {
		log.Fatal().Err(err).Msg("seed data installation failed")
	}

	e := api.NewRouter(api.Deps{
		Users:     userService,
		Auth:      authService,
		JWTSecret: cfg.JWTSecret,
		Mongo:     db,
		Redis:     rdb,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nihalsingh571/Apitask/internal/api"
	"github.com/nihalsingh571/Apitask/internal/auth"
	"github.com/nihalsingh571/Apitask/internal/config"
	"github.com/nihalsingh571/Apitask/internal/redis"
	"github.com/nihalsingh571/Apitask/internal/service"
	"github.com/nihalsingh571/Apitask/internal/storage/postgres"
	"github.com/nihalsingh571/Apitask/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	denylist := redis.NewTokenDenylist(redisClient)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	incidentSvc := service.NewIncidentService(storage.Incidents)
	userSvc := service.NewUserService(storage.Users, tokens, denylist)
	svc := service.NewService(incidentSvc, userSvc)

	httpServer := api.NewServer(cfg, logger, svc, tokens, denylist)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}

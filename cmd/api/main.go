package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/school-directory/internal/allocator"
	httptransport "github.com/spec-kit/school-directory/internal/api/http"
	"github.com/spec-kit/school-directory/internal/api/http/handlers"
	"github.com/spec-kit/school-directory/internal/config"
	"github.com/spec-kit/school-directory/internal/events"
	"github.com/spec-kit/school-directory/internal/observability"
	"github.com/spec-kit/school-directory/internal/persistence"
	"github.com/spec-kit/school-directory/internal/repository"
	"github.com/spec-kit/school-directory/internal/repository/memory"
	"github.com/spec-kit/school-directory/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var store repository.Store
	if pg.Enabled() {
		store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		store = memory.New()
	}

	metrics := observability.NewMetrics()

	allocOpts := []allocator.Option{allocator.WithRecorder(metrics)}
	if redis != nil {
		allocOpts = append(allocOpts, allocator.WithReserver(redis))
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	directory := service.NewDirectoryService(cfg.Directory, service.DirectoryDependencies{
		Store:      store,
		Allocator:  allocator.New(logger, allocOpts...),
		Dispatcher: dispatcher,
		Recorder:   metrics,
		Logger:     logger,
	})

	app := httptransport.NewApp(logger, metrics, cfg.HTTP.RequestTimeout(), httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Teachers:  handlers.NewTeachersHandler(directory),
		Positions: handlers.NewPositionsHandler(directory),
		Users:     handlers.NewUsersHandler(directory),
		Metrics:   metrics.Handler(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

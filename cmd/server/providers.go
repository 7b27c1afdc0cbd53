package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"media-orchestrator/internal/delivery/http/handlers"
	"media-orchestrator/internal/delivery/http/routers"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/infrastructure/db"
	"media-orchestrator/internal/infrastructure/metrics"
	"media-orchestrator/internal/infrastructure/processor"
	"media-orchestrator/internal/infrastructure/queue"
	"media-orchestrator/internal/infrastructure/relay"
	infra_repo "media-orchestrator/internal/infrastructure/repositories"
	"media-orchestrator/internal/infrastructure/storage"
	"media-orchestrator/internal/pkg/config"
	"media-orchestrator/internal/pkg/logger"
	"media-orchestrator/internal/usecases"
	"media-orchestrator/pkg/errors/i18n"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	if err := i18n.Load(cfg.Server.Locale); err != nil {
		l.Warn("locale not available, using en", zap.String("locale", cfg.Server.Locale), zap.Error(err))
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}

func provideWorkerPool(lc fx.Lifecycle, logger *zap.Logger) *queue.WorkerPool {
	pool := queue.NewWorkerPool(4, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Shutdown()
			return nil
		},
	})
	return pool
}

func provideEngine(cfg *config.Config, logger *zap.Logger) repositories.Engine {
	return processor.NewFFmpegEngine(cfg.Engine.FFmpegPath, cfg.Engine.FFprobePath, logger)
}

func provideStorage(cfg *config.Config) repositories.StorageStrategy {
	return storage.NewLocalStorage(cfg.Upload.UploadsDir)
}

func provideAssetRepository() repositories.AssetRepository {
	return infra_repo.NewInMemoryAssetRepository()
}

func provideJobRepository() repositories.JobRepository {
	return infra_repo.NewInMemoryJobRepository()
}

func provideBroadcaster(cfg *config.Config, m *metrics.Metrics) usecases.Broadcaster {
	return usecases.NewBroadcaster(cfg.Broadcast.SubscriberBuffer, m)
}

func provideUploadService(
	cfg *config.Config,
	assets repositories.AssetRepository,
	store repositories.StorageStrategy,
	engine repositories.Engine,
	pool *queue.WorkerPool,
	m *metrics.Metrics,
	logger *zap.Logger,
) usecases.UploadService {
	return usecases.NewUploadService(assets, store, engine, pool, m, logger, cfg.Upload)
}

func provideManifestBuilder(cfg *config.Config, store repositories.StorageStrategy) usecases.ManifestBuilder {
	return usecases.NewManifestBuilder(cfg.Upload.ManifestDir, store)
}

func provideRetentionService(
	cfg *config.Config,
	jobs repositories.JobRepository,
	uploads usecases.UploadService,
	manifests usecases.ManifestBuilder,
	store repositories.StorageStrategy,
	pool *queue.WorkerPool,
	m *metrics.Metrics,
	logger *zap.Logger,
) usecases.RetentionService {
	dirs := []string{cfg.Upload.UploadsDir, cfg.Upload.ManifestDir, cfg.Upload.OutputDir}
	return usecases.NewRetentionService(jobs, uploads, manifests, store, pool, m, logger, dirs)
}

// extras holds the optional integrations; a nil field means disabled.
type extras struct {
	History   repositories.JobHistoryRepository
	Archiver  repositories.Archiver
	Publisher repositories.EventPublisher
}

func provideExtras(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*extras, error) {
	ex := &extras{}

	if cfg.Database.Driver != "" {
		database, err := db.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(database, cfg.Database.Driver); err != nil {
				return nil, err
			}
		}
		ex.History = infra_repo.NewJobHistoryRepository(database)
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeDB(database) }})
		logger.Info("job history enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		ex.Publisher = relay.NewRedisRelay(rdb, cfg.Redis.Channel)
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return rdb.Close() }})
		logger.Info("redis event relay enabled", zap.String("channel", cfg.Redis.Channel))
	}

	if cfg.Archive.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Archive.Bucket, cfg.Archive.Region, cfg.Archive.Prefix)
		if err != nil {
			return nil, err
		}
		ex.Archiver = s3Storage
		logger.Info("s3 archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	return ex, nil
}

func closeDB(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func provideJobService(
	lc fx.Lifecycle,
	cfg *config.Config,
	jobs repositories.JobRepository,
	uploads usecases.UploadService,
	manifests usecases.ManifestBuilder,
	engine repositories.Engine,
	store repositories.StorageStrategy,
	events usecases.Broadcaster,
	retention usecases.RetentionService,
	ex *extras,
	m *metrics.Metrics,
	logger *zap.Logger,
) usecases.JobService {
	deps := usecases.OrchestratorDeps{
		Jobs:      jobs,
		Uploads:   uploads,
		Manifests: manifests,
		Engine:    engine,
		Storage:   store,
		Events:    events,
		Retention: retention,
		History:   ex.History,
		Archiver:  ex.Archiver,
		Metrics:   m,
		Logger:    logger,
	}

	svc := usecases.NewOrchestrator(deps, usecases.OrchestratorConfig{
		OutputDir:     cfg.Upload.OutputDir,
		OutputTTL:     cfg.Retention.OutputTTL,
		DownloadGrace: cfg.Retention.DownloadGrace,
		MaxConcurrent: cfg.Engine.MaxConcurrent,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return svc.Shutdown(ctx)
		},
	})
	return svc
}

func provideStatusService(
	jobs usecases.JobService,
	uploads usecases.UploadService,
	events usecases.Broadcaster,
	pool *queue.WorkerPool,
) usecases.StatusService {
	return usecases.NewStatusService(jobs, uploads, events, pool)
}

func provideApp(
	lc fx.Lifecycle,
	cfg *config.Config,
	uploads usecases.UploadService,
	jobs usecases.JobService,
	events usecases.Broadcaster,
	status usecases.StatusService,
	retention usecases.RetentionService,
	ex *extras,
	m *metrics.Metrics,
	logger *zap.Logger,
) *fiber.App {
	app := routers.NewApp(bodyLimit(cfg.Upload))
	routers.SetupRoutes(app, routers.Handlers{
		Upload:      handlers.NewUploadHandler(uploads),
		Job:         handlers.NewJobHandler(jobs, ex.History),
		Events:      handlers.NewEventsHandler(events, jobs, cfg.Broadcast.Heartbeat, logger),
		Status:      handlers.NewStatusHandler(status),
		Maintenance: handlers.NewMaintenanceHandler(retention, cfg.Retention.SweepMaxAge),
	}, m)

	addr := cfg.Addr()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("server starting", zap.String("addr", addr))
			go func() {
				if err := app.Listen(addr); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return app.ShutdownWithContext(ctx)
		},
	})
	return app
}

// bodyLimit allows a full batch of maximum-size files.
func bodyLimit(cfg config.UploadConfig) int {
	limit := cfg.MaxFileSize * int64(cfg.MaxFiles)
	if limit <= 0 || limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(limit)
}

func startSweeper(lc fx.Lifecycle, cfg *config.Config, retention usecases.RetentionService, logger *zap.Logger) error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(cfg.Retention.SweepSpec, func() {
		removed, err := retention.Sweep(cfg.Retention.SweepMaxAge)
		if err != nil {
			logger.Error("error sweeping stale files", zap.Error(err))
			return
		}
		if removed > 0 {
			logger.Info("stale files swept", zap.Int("removed", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", cfg.Retention.SweepSpec, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

func startEventForwarder(lc fx.Lifecycle, ex *extras, events usecases.Broadcaster, logger *zap.Logger) {
	if ex.Publisher == nil {
		return
	}
	forwarder := usecases.NewEventForwarder(events, ex.Publisher, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			forwarder.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			forwarder.Stop()
			return nil
		},
	})
}

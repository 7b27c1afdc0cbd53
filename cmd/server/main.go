package main

import (
	"log"

	_ "media-orchestrator/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// @title        Media Job Orchestrator API
// @version      1.0
// @description  Upload audio/video files, merge them into one output and follow progress over SSE.
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMetrics,
			provideWorkerPool,
			provideEngine,
			provideStorage,
			provideAssetRepository,
			provideJobRepository,
			provideBroadcaster,
			provideUploadService,
			provideManifestBuilder,
			provideRetentionService,
			provideExtras,
			provideJobService,
			provideStatusService,
			provideApp,
		),
		fx.Invoke(
			startSweeper,
			startEventForwarder,
			func(*fiber.App) {},
		),
	).Run()
}

package routers

import (
	"media-orchestrator/internal/delivery/http/handlers"
	"media-orchestrator/internal/infrastructure/metrics"
	apperrors "media-orchestrator/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"
)

type Handlers struct {
	Upload      *handlers.UploadHandler
	Job         *handlers.JobHandler
	Events      *handlers.EventsHandler
	Status      *handlers.StatusHandler
	Maintenance *handlers.MaintenanceHandler
}

// NewApp builds the fiber app. bodyLimit caps a whole multipart request.
func NewApp(bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperrors.HandleError(c, err)
		},
	})
	app.Use(logger.New())
	app.Use(cors.New())
	return app
}

func SetupRoutes(app *fiber.App, h Handlers, m *metrics.Metrics) {
	app.Get("/health", h.Status.Health)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")
	SetupUploadRoutes(api, h.Upload)
	SetupJobRoutes(api, h.Job, h.Events)
	api.Get("/status", h.Status.Status)
	api.Post("/maintenance/sweep", h.Maintenance.Sweep)
}

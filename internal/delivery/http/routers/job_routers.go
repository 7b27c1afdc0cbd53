package routers

import (
	"media-orchestrator/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupJobRoutes(api fiber.Router, jobHandler *handlers.JobHandler, eventsHandler *handlers.EventsHandler) {
	api.Post("/jobs", jobHandler.SubmitJob)
	api.Get("/jobs", jobHandler.ListJobs)
	// registered before /jobs/:id
	api.Get("/jobs/history", jobHandler.JobHistory)
	api.Get("/jobs/:id", jobHandler.GetJob)
	api.Get("/jobs/:id/download", jobHandler.Download)
	api.Get("/events", eventsHandler.Stream)
}

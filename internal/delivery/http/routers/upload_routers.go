package routers

import (
	"media-orchestrator/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(api fiber.Router, uploadHandler *handlers.UploadHandler) {
	api.Post("/uploads", uploadHandler.Upload)
	api.Get("/uploads", uploadHandler.ListAssets)
	api.Get("/uploads/:id", uploadHandler.GetAsset)
}

package handlers

import (
	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/usecases"
	"media-orchestrator/pkg/constants"

	"github.com/gofiber/fiber/v2"
)

type StatusHandler struct {
	statusService usecases.StatusService
}

func NewStatusHandler(statusService usecases.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// Status
//
// @Summary      Service status
// @Tags         System
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /status [get]
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.statusService.Status())
}

// Health
//
// @Summary      Liveness probe
// @Tags         System
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *StatusHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: constants.StatusOK})
}

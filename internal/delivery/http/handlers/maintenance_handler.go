package handlers

import (
	"time"

	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/usecases"
	apperrors "media-orchestrator/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type MaintenanceHandler struct {
	retention usecases.RetentionService
	maxAge    time.Duration
}

func NewMaintenanceHandler(retention usecases.RetentionService, maxAge time.Duration) *MaintenanceHandler {
	return &MaintenanceHandler{retention: retention, maxAge: maxAge}
}

// Sweep
//
// @Summary      Run the stale file sweep now
// @Description  Same pass the scheduled sweeper runs. maxAge overrides the configured age (Go duration, e.g. 2h).
// @Tags         System
// @Produce      json
// @Param        maxAge  query     string  false  "Minimum file age"
// @Success      200     {object}  dto.SweepResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /maintenance/sweep [post]
func (h *MaintenanceHandler) Sweep(c *fiber.Ctx) error {
	maxAge := h.maxAge
	if raw := c.Query("maxAge"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return apperrors.HandleError(c, apperrors.ErrValidation("invalid maxAge: "+raw))
		}
		maxAge = d
	}

	removed, err := h.retention.Sweep(maxAge)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.SweepResponse{Removed: removed})
}

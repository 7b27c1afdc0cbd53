package handlers

import (
	"fmt"
	"strconv"

	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/domain/mapper"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/usecases"
	apperrors "media-orchestrator/pkg/errors"
	"media-orchestrator/pkg/helper"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	jobService usecases.JobService
	history    repositories.JobHistoryRepository // nil when no database is configured
}

func NewJobHandler(jobService usecases.JobService, history repositories.JobHistoryRepository) *JobHandler {
	return &JobHandler{jobService: jobService, history: history}
}

// SubmitJob
//
// @Summary      Submit a merge job
// @Description  Accepts the job and returns immediately; progress is reported on /events.
// @Tags         Jobs
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SubmitJobRequest  true  "Inputs and encoding profile"
// @Success      202      {object}  dto.SubmitJobResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /jobs [post]
func (h *JobHandler) SubmitJob(c *fiber.Ctx) error {
	var req dto.SubmitJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid request body"))
	}

	job, err := h.jobService.Submit(c.UserContext(), usecases.SubmitRequest{
		AssetIDs:   req.AssetIDs,
		Profile:    mapper.ProfileFromDTO(req.Profile),
		OutputName: req.OutputName,
	})
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SubmitJobResponse{
		JobID:         job.ID,
		EcoSuppressed: job.Profile.EcoSuppressed,
	})
}

// GetJob
//
// @Summary      Get job status
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.jobService.Get(c.Params("id"))
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(mapper.JobToDTO(job))
}

// ListJobs
//
// @Summary      List jobs known to this process
// @Tags         Jobs
// @Produce      json
// @Success      200  {object}  dto.JobListResponse
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	return c.JSON(dto.JobListResponse{Jobs: mapper.JobsToDTO(h.jobService.List())})
}

// JobHistory
//
// @Summary      List persisted terminal jobs
// @Tags         Jobs
// @Produce      json
// @Param        state  query     string  false  "completed or failed"
// @Param        limit  query     int     false  "Maximum rows (default 100)"
// @Success      200    {object}  dto.JobHistoryResponse
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /jobs/history [get]
func (h *JobHandler) JobHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return apperrors.HandleError(c, fiber.NewError(fiber.StatusServiceUnavailable, "job history is not configured"))
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return apperrors.HandleError(c, apperrors.ErrValidation(fmt.Sprintf("invalid limit: %s", raw)))
		}
		limit = n
	}

	records, err := h.history.List(c.UserContext(), c.Query("state"), limit)
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrInternal(err))
	}
	return c.JSON(dto.JobHistoryResponse{Jobs: records})
}

// Download
//
// @Summary      Download a job's output
// @Description  Streams the merged file. The output is deleted shortly after the transfer ends.
// @Tags         Jobs
// @Produce      octet-stream
// @Param        id   path  string  true  "Job ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /jobs/{id}/download [get]
func (h *JobHandler) Download(c *fiber.Ctx) error {
	body, size, job, err := h.jobService.OpenOutput(c.Params("id"))
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	c.Set(fiber.HeaderContentType, helper.GetMimeTypeFromExtension(job.OutputFilename))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, job.OutputFilename))
	// fasthttp closes body once the response is written
	return c.SendStream(body, int(size))
}

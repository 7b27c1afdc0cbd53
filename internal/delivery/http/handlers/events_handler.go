package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/usecases"
	apperrors "media-orchestrator/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type EventsHandler struct {
	events     usecases.Broadcaster
	jobService usecases.JobService
	heartbeat  time.Duration
	logger     *zap.Logger
}

func NewEventsHandler(events usecases.Broadcaster, jobService usecases.JobService, heartbeat time.Duration, logger *zap.Logger) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &EventsHandler{
		events:     events,
		jobService: jobService,
		heartbeat:  heartbeat,
		logger:     logger.Named("sse"),
	}
}

// Stream
//
// @Summary      Job event stream
// @Description  Server-Sent Events carrying job state and progress. With jobId the stream starts with the job's current snapshot and ends after its terminal event.
// @Tags         Events
// @Produce      text/event-stream
// @Param        jobId  query  string  false  "Only events for this job"
// @Success      200    {object}  entities.JobEvent
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	jobID := c.Query("jobId")

	// subscribe before reading the snapshot so a transition in between is not lost
	sub := h.events.Subscribe(jobID)

	var initial *entities.JobEvent
	if jobID != "" {
		job, err := h.jobService.Get(jobID)
		if err != nil {
			h.events.Unsubscribe(sub)
			return apperrors.HandleError(c, err)
		}
		ev := job.Event()
		initial = &ev
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.events.Unsubscribe(sub)

		if initial != nil {
			if writeEvent(w, *initial) != nil || initial.State.IsTerminal() {
				return
			}
		}

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					// pruned for falling behind
					h.logger.Debug("subscriber dropped", zap.String("job_id", jobID))
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
				if jobID != "" && ev.State.IsTerminal() {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, ev entities.JobEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: job\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

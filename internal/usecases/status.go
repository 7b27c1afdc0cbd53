package usecases

import (
	"time"

	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/infrastructure/queue"
	"media-orchestrator/pkg/constants"
)

type StatusService interface {
	Status() dto.StatusResponse
}

type statusService struct {
	jobs    JobService
	uploads UploadService
	events  Broadcaster
	queue   *queue.WorkerPool
	started time.Time
}

func NewStatusService(jobs JobService, uploads UploadService, events Broadcaster, q *queue.WorkerPool) StatusService {
	return &statusService{
		jobs:    jobs,
		uploads: uploads,
		events:  events,
		queue:   q,
		started: time.Now(),
	}
}

func (s *statusService) Status() dto.StatusResponse {
	return dto.StatusResponse{
		Status:           constants.StatusOK,
		ActiveJobs:       s.jobs.ActiveCount(),
		TotalJobs:        len(s.jobs.List()),
		RegisteredAssets: s.uploads.Count(),
		Subscribers:      s.events.Count(),
		PendingTimers:    s.queue.Pending(),
		UptimeSeconds:    time.Since(s.started).Seconds(),
	}
}

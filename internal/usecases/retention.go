package usecases

import (
	"context"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/infrastructure/metrics"
	"media-orchestrator/internal/infrastructure/queue"
	"media-orchestrator/internal/pkg/fileutils"
	apperrors "media-orchestrator/pkg/errors"

	"go.uber.org/zap"
)

type RetentionService interface {
	// ScheduleCleanup reclaims a terminal job's inputs, manifest and, for
	// failed jobs, any partial output.
	ScheduleCleanup(job entities.Job)
	// ScheduleOutputExpiry (re)arms deletion of a completed job's output.
	ScheduleOutputExpiry(jobID string, delay time.Duration)
	// Sweep removes files under the working dirs older than maxAge,
	// whatever the registries think, and forgets terminal jobs that ended
	// before the same cutoff.
	Sweep(maxAge time.Duration) (int, error)
}

type retentionService struct {
	jobs      repositories.JobRepository
	uploads   UploadService
	manifests ManifestBuilder
	storage   repositories.StorageStrategy
	queue     *queue.WorkerPool
	metrics   *metrics.Metrics
	logger    *zap.Logger
	sweepDirs []string
}

func NewRetentionService(
	jobs repositories.JobRepository,
	uploads UploadService,
	manifests ManifestBuilder,
	storage repositories.StorageStrategy,
	q *queue.WorkerPool,
	m *metrics.Metrics,
	logger *zap.Logger,
	sweepDirs []string,
) RetentionService {
	return &retentionService{
		jobs:      jobs,
		uploads:   uploads,
		manifests: manifests,
		storage:   storage,
		queue:     q,
		metrics:   m,
		logger:    logger.Named("retention"),
		sweepDirs: sweepDirs,
	}
}

func (s *retentionService) ScheduleCleanup(job entities.Job) {
	inputs := job.InputIDs()
	ok := s.queue.AddJob(queue.Job{
		Key:  "cleanup:" + job.ID,
		Type: queue.JobCleanup,
		Run: func(context.Context) error {
			return s.cleanup(job.ID, job.State, inputs, job.ManifestPath, job.OutputPath)
		},
	})
	if !ok {
		s.logger.Warn("cleanup not queued, queue is shut down", zap.String("job_id", job.ID))
	}
}

func (s *retentionService) cleanup(jobID string, state entities.JobState, inputs []string, manifestPath, outputPath string) error {
	s.uploads.Release(inputs)

	var firstErr error
	if manifestPath != "" {
		if err := s.manifests.Remove(manifestPath); err != nil {
			firstErr = apperrors.ErrCannotRemove(err)
		}
	}
	if state == entities.JobFailed {
		if err := s.storage.Delete(outputPath); err != nil && firstErr == nil {
			firstErr = apperrors.ErrCannotRemove(err)
		}
	}
	s.logger.Debug("job resources reclaimed", zap.String("job_id", jobID), zap.String("state", string(state)))
	return firstErr
}

func (s *retentionService) ScheduleOutputExpiry(jobID string, delay time.Duration) {
	s.queue.Schedule(queue.Job{
		Key:  "output:" + jobID,
		Type: queue.JobOutputExpiry,
		Run:  func(context.Context) error { return s.expireOutput(jobID) },
	}, delay)
}

func (s *retentionService) expireOutput(jobID string) error {
	job, err := s.jobs.Update(jobID, func(j *entities.Job) error {
		j.OutputExpired = true
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.storage.Delete(job.OutputPath); err != nil {
		return apperrors.ErrCannotRemove(err)
	}
	s.logger.Info("output expired", zap.String("job_id", jobID))
	return nil
}

func (s *retentionService) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	total := 0
	for _, dir := range s.sweepDirs {
		removed, err := fileutils.RemoveOlderThan(dir, cutoff)
		total += len(removed)
		for _, path := range removed {
			s.logger.Info("removed stale file", zap.String("path", path))
		}
		if err != nil {
			s.metrics.FilesSwept.Add(float64(total))
			return total, apperrors.ErrCannotRemove(err)
		}
	}
	s.metrics.FilesSwept.Add(float64(total))
	s.evictJobs(cutoff)
	return total, nil
}

func (s *retentionService) evictJobs(cutoff time.Time) {
	evicted := s.jobs.EvictTerminal(cutoff)
	for _, id := range evicted {
		s.queue.Cancel("output:" + id)
	}
	if len(evicted) > 0 {
		s.logger.Info("evicted finished jobs", zap.Int("count", len(evicted)))
	}
}

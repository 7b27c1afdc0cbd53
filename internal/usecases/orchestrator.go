package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/mapper"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/infrastructure/metrics"
	apperrors "media-orchestrator/pkg/errors"
	"media-orchestrator/pkg/file"
	"media-orchestrator/pkg/helper"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const internalFailureDetail = "internal error while processing job"

type SubmitRequest struct {
	AssetIDs   []string
	Profile    entities.EncodingProfile
	OutputName string
}

type JobService interface {
	// Submit validates the request, creates the job and hands it to a
	// monitoring task. It never waits for the engine.
	Submit(ctx context.Context, req SubmitRequest) (entities.Job, error)
	Get(id string) (entities.Job, error)
	List() []entities.Job
	ActiveCount() int
	// OpenOutput streams a completed job's artifact. Closing the reader
	// arms the post-download deletion.
	OpenOutput(id string) (io.ReadCloser, int64, entities.Job, error)
	Shutdown(ctx context.Context) error
}

type OrchestratorConfig struct {
	OutputDir     string
	OutputTTL     time.Duration
	DownloadGrace time.Duration
	MaxConcurrent int64 // 0 = unlimited
}

type OrchestratorDeps struct {
	Jobs      repositories.JobRepository
	Uploads   UploadService
	Manifests ManifestBuilder
	Engine    repositories.Engine
	Storage   repositories.StorageStrategy
	Events    Broadcaster
	Retention RetentionService
	History   repositories.JobHistoryRepository // optional
	Archiver  repositories.Archiver             // optional
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type orchestrator struct {
	OrchestratorDeps
	cfg    OrchestratorConfig
	logger *zap.Logger
	sem    *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(deps OrchestratorDeps, cfg OrchestratorConfig) JobService {
	ctx, cancel := context.WithCancel(context.Background())
	o := &orchestrator{
		OrchestratorDeps: deps,
		cfg:              cfg,
		logger:           deps.Logger.Named("orchestrator"),
		ctx:              ctx,
		cancel:           cancel,
	}
	if cfg.MaxConcurrent > 0 {
		o.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return o
}

func (o *orchestrator) Submit(ctx context.Context, req SubmitRequest) (entities.Job, error) {
	if len(req.AssetIDs) < 2 {
		return entities.Job{}, apperrors.ErrValidation("assetIds must contain at least 2 entries")
	}

	profile := req.Profile.Normalize()
	if profile.EcoSuppressed {
		o.logger.Warn("turbo and eco both requested, eco suppressed")
	}
	if err := profile.Validate(); err != nil {
		return entities.Job{}, err
	}

	inputs, err := o.acquireInputs(req.AssetIDs, profile)
	if err != nil {
		return entities.Job{}, err
	}
	ids := make([]string, len(inputs))
	for i, a := range inputs {
		ids[i] = a.ID
	}

	jobID := uuid.New().String()
	outputName := helper.EnsureExtension(helper.SanitizeFilename(req.OutputName, "merged"), profile.Format)
	outputPath := filepath.Join(o.cfg.OutputDir, jobID+"."+profile.Format)

	job := entities.NewJob(jobID, inputs, profile, outputName, outputPath)
	o.Jobs.Save(job)
	o.Events.Publish(job.Event())

	snapshot, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		return j.Transition(entities.JobInitializing)
	})
	if err != nil {
		o.Uploads.Release(ids)
		return entities.Job{}, apperrors.ErrInternal(err)
	}

	o.Metrics.JobsSubmitted.Inc()
	o.Metrics.ActiveJobs.Inc()
	o.Events.Publish(snapshot.Event())
	o.logger.Info("job submitted",
		zap.String("job_id", jobID),
		zap.Int("inputs", len(inputs)),
		zap.String("format", profile.Format),
		zap.String("quality", profile.Quality),
		zap.String("performance", profile.Performance()))

	o.wg.Add(1)
	go o.monitor(jobID)

	return snapshot, nil
}

// monitor is the only place that waits on the engine for a job.
// acquireInputs resolves and holds the job inputs. An asset that expires
// between the two steps is dropped and the remaining set is checked again.
func (o *orchestrator) acquireInputs(assetIDs []string, profile entities.EncodingProfile) ([]entities.Asset, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resolved := o.Uploads.Resolve(assetIDs)
		if len(resolved) < 2 {
			return nil, apperrors.ErrInsufficientInputs(len(resolved))
		}
		if profile.AudioOnly() {
			for _, a := range resolved {
				if a.IsVideo() {
					return nil, apperrors.ErrValidation(
						fmt.Sprintf("output format %s is audio-only but asset %s is video", profile.Format, a.ID))
				}
			}
		}

		ids := make([]string, len(resolved))
		for i, a := range resolved {
			ids[i] = a.ID
		}
		inputs, err := o.Uploads.Acquire(ids)
		if err == nil {
			return inputs, nil
		}
		lastErr = err
		o.logger.Debug("input expired while acquiring, resolving again", zap.Error(err))
	}
	return nil, lastErr
}

func (o *orchestrator) monitor(jobID string) {
	defer o.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("job monitor panicked",
				zap.String("job_id", jobID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			o.fail(jobID, internalFailureDetail)
		}
	}()

	job, ok := o.Jobs.Get(jobID)
	if !ok {
		return
	}

	manifestPath, err := o.Manifests.Build(job.ID, job.Inputs)
	if err != nil {
		o.fail(jobID, failureDetail(err))
		return
	}
	if _, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		j.ManifestPath = manifestPath
		return nil
	}); err != nil {
		o.fail(jobID, internalFailureDetail)
		return
	}

	if o.sem != nil {
		if err := o.sem.Acquire(o.ctx, 1); err != nil {
			o.fail(jobID, "service shutting down")
			return
		}
		defer o.sem.Release(1)
	}

	events, err := o.Engine.Start(o.ctx, repositories.EngineRequest{
		JobID:         job.ID,
		ManifestPath:  manifestPath,
		OutputPath:    job.OutputPath,
		Profile:       job.Profile,
		HasVideo:      job.HasVideo(),
		TotalDuration: job.TotalDuration(),
	})
	if err != nil {
		o.fail(jobID, failureDetail(err))
		return
	}

	processing, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		return j.Transition(entities.JobProcessing)
	})
	if err != nil {
		o.drain(events)
		o.fail(jobID, internalFailureDetail)
		return
	}
	o.Events.Publish(processing.Event())

	for ev := range events {
		switch ev.Type {
		case entities.EngineProgress:
			o.progress(jobID, ev)
		case entities.EngineCompleted:
			o.complete(jobID)
			o.drain(events)
			return
		case entities.EngineFailed:
			o.fail(jobID, ev.Detail)
			o.drain(events)
			return
		}
	}
	o.fail(jobID, "engine exited without reporting a result")
}

func (o *orchestrator) drain(events <-chan entities.EngineEvent) {
	for range events {
	}
}

func (o *orchestrator) progress(jobID string, ev entities.EngineEvent) {
	changed := false
	job, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		if j.SetProgress(ev.Progress) {
			changed = true
		}
		if ev.Speed != "" && ev.Speed != j.Throughput && !j.IsTerminal() {
			j.Throughput = ev.Speed
			changed = true
		}
		return nil
	})
	if err == nil && changed {
		o.Events.Publish(job.Event())
	}
}

func (o *orchestrator) complete(jobID string) {
	job, ok := o.Jobs.Get(jobID)
	if !ok {
		return
	}
	if !o.Storage.FileExists(job.OutputPath) {
		o.fail(jobID, "engine reported success but produced no output")
		return
	}

	checksum, err := file.CalculateFileHash(job.OutputPath)
	if err != nil {
		o.logger.Warn("checksum failed", zap.String("job_id", jobID), zap.Error(err))
	}

	var archiveURL string
	if o.Archiver != nil {
		ctx, cancel := context.WithTimeout(o.ctx, 10*time.Minute)
		archiveURL, err = o.Archiver.Archive(ctx, file.MakeKey(jobID, job.OutputFilename), job.OutputPath)
		cancel()
		if err != nil {
			o.Metrics.ArchiveFailures.Inc()
			o.logger.Warn("archive failed", zap.String("job_id", jobID), zap.Error(err))
			archiveURL = ""
		}
	}

	done, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		if err := j.Transition(entities.JobCompleted); err != nil {
			return err
		}
		j.Checksum = checksum
		j.ArchiveURL = archiveURL
		return nil
	})
	if err != nil {
		o.logger.Error("complete transition rejected", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	o.logger.Info("job completed", zap.String("job_id", jobID), zap.String("checksum", checksum))
	o.Events.Publish(done.Event())
	o.Retention.ScheduleOutputExpiry(jobID, o.cfg.OutputTTL)
	o.finish(done)
}

// fail moves a non-terminal job to failed; terminal jobs are left alone.
func (o *orchestrator) fail(jobID, detail string) {
	var moved bool
	job, err := o.Jobs.Update(jobID, func(j *entities.Job) error {
		if j.IsTerminal() {
			return nil
		}
		moved = true
		return j.Fail(detail)
	})
	if err != nil || !moved {
		return
	}

	o.logger.Warn("job failed", zap.String("job_id", jobID), zap.String("error", detail))
	o.Events.Publish(job.Event())
	o.finish(job)
}

func (o *orchestrator) finish(job entities.Job) {
	o.Metrics.ActiveJobs.Dec()
	o.Metrics.JobsFinished.WithLabelValues(string(job.State)).Inc()
	if job.EndedAt != nil {
		o.Metrics.JobDuration.Observe(job.EndedAt.Sub(job.CreatedAt).Seconds())
	}

	o.Retention.ScheduleCleanup(job)

	if o.History != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.History.Record(ctx, mapper.JobToRecord(job)); err != nil {
			o.logger.Warn("history write failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

func (o *orchestrator) Get(id string) (entities.Job, error) {
	job, ok := o.Jobs.Get(id)
	if !ok {
		return entities.Job{}, apperrors.ErrNotFound(fmt.Errorf("job %s", id))
	}
	return job, nil
}

func (o *orchestrator) List() []entities.Job {
	return o.Jobs.List()
}

func (o *orchestrator) ActiveCount() int {
	return o.Jobs.CountActive()
}

func (o *orchestrator) OpenOutput(id string) (io.ReadCloser, int64, entities.Job, error) {
	job, err := o.Get(id)
	if err != nil {
		return nil, 0, entities.Job{}, err
	}
	if job.State != entities.JobCompleted || job.OutputExpired {
		return nil, 0, entities.Job{}, apperrors.ErrNotFound(fmt.Errorf("job %s has no output", id))
	}

	f, err := o.Storage.Open(job.OutputPath)
	if err != nil {
		return nil, 0, entities.Job{}, apperrors.ErrNotFound(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, entities.Job{}, apperrors.ErrNotFound(err)
	}

	rc := &downloadReader{
		ReadCloser: f,
		onClose: func() {
			o.Retention.ScheduleOutputExpiry(id, o.cfg.DownloadGrace)
		},
	}
	return rc, info.Size(), job, nil
}

// Shutdown waits for running jobs until ctx is done, then cancels them.
func (o *orchestrator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.cancel()
		return nil
	case <-ctx.Done():
		o.cancel()
		<-done
		return ctx.Err()
	}
}

type downloadReader struct {
	io.ReadCloser
	once    sync.Once
	onClose func()
}

func (d *downloadReader) Close() error {
	err := d.ReadCloser.Close()
	d.once.Do(d.onClose)
	return err
}

func failureDetail(err error) string {
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		return err.Error()
	}
	if ae.Err != nil {
		return fmt.Sprintf("%s: %v", ae.Message, ae.Err)
	}
	return ae.Message
}

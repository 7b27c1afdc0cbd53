package queue

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Worker struct {
	ID      int
	JobChan <-chan Job
	Wg      *sync.WaitGroup
	Logger  *zap.Logger
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job := <-w.JobChan:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.Logger.Debug("worker stopping", zap.Int("worker", w.ID))
				return
			}
		}
	}()
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	err := w.run(ctx, job)
	if err != nil {
		w.Logger.Warn("job failed",
			zap.Int("worker", w.ID),
			zap.String("type", string(job.Type)),
			zap.String("key", job.Key),
			zap.Error(err))
		return
	}
	w.Logger.Debug("job done",
		zap.Int("worker", w.ID),
		zap.String("type", string(job.Type)),
		zap.String("key", job.Key))
}

func (w *Worker) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if job.Run == nil {
		return fmt.Errorf("job %s has no run func", job.Key)
	}
	return job.Run(ctx)
}

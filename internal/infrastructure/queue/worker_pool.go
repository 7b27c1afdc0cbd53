package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type timerEntry struct {
	timer      *time.Timer
	generation uint64
}

// WorkerPool runs deferred jobs. Scheduled jobs are keyed: scheduling a key
// that is already pending replaces the earlier timer, and Cancel drops it.
type WorkerPool struct {
	JobChan chan Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger

	mu     sync.Mutex
	timers map[string]timerEntry
	seq    uint64
	closed bool
}

func NewWorkerPool(workerCount int, logger *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, 100),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.Named("queue"),
		timers:  make(map[string]timerEntry),
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:      i,
			JobChan: pool.JobChan,
			Wg:      &pool.wg,
			Logger:  pool.logger,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	return pool
}

// AddJob enqueues job for immediate execution. It reports false once the
// pool is shut down.
func (p *WorkerPool) AddJob(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.JobChan <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Schedule runs job after delay, replacing any pending job with the same key.
func (p *WorkerPool) Schedule(job Job, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if prev, ok := p.timers[job.Key]; ok {
		prev.timer.Stop()
	}
	p.seq++
	job.generation = p.seq
	p.timers[job.Key] = timerEntry{
		generation: job.generation,
		timer:      time.AfterFunc(delay, func() { p.fire(job) }),
	}
}

func (p *WorkerPool) fire(job Job) {
	p.mu.Lock()
	entry, ok := p.timers[job.Key]
	if !ok || entry.generation != job.generation || p.closed {
		// replaced or cancelled after the timer fired
		p.mu.Unlock()
		return
	}
	delete(p.timers, job.Key)
	p.mu.Unlock()

	p.AddJob(job)
}

// Cancel drops the pending job for key. It reports whether one was pending.
func (p *WorkerPool) Cancel(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.timers[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(p.timers, key)
	return true
}

func (p *WorkerPool) IsPending(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.timers[key]
	return ok
}

func (p *WorkerPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Shutdown stops all timers and waits for running jobs to return.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for key, entry := range p.timers {
		entry.timer.Stop()
		delete(p.timers, key)
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

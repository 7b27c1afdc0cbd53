package repositories

import (
	"sort"
	"sync"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	apperrors "media-orchestrator/pkg/errors"
)

type InMemoryJobRepository struct {
	mu   sync.RWMutex
	data map[string]*entities.Job
}

func NewInMemoryJobRepository() *InMemoryJobRepository {
	return &InMemoryJobRepository{
		data: make(map[string]*entities.Job),
	}
}

var _ repositories.JobRepository = (*InMemoryJobRepository)(nil)

func (r *InMemoryJobRepository) Save(job *entities.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.ID] = job
}

func (r *InMemoryJobRepository) Get(id string) (entities.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.data[id]
	if !ok {
		return entities.Job{}, false
	}
	return j.Clone(), true
}

func (r *InMemoryJobRepository) Update(id string, fn func(j *entities.Job) error) (entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.data[id]
	if !ok {
		return entities.Job{}, apperrors.ErrNotFound(nil)
	}
	err := fn(j)
	return j.Clone(), err
}

// List returns snapshots ordered by creation time.
func (r *InMemoryJobRepository) List() []entities.Job {
	r.mu.RLock()
	out := make([]entities.Job, 0, len(r.data))
	for _, j := range r.data {
		out = append(out, j.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

func (r *InMemoryJobRepository) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, j := range r.data {
		if !j.IsTerminal() {
			n++
		}
	}
	return n
}

// EvictTerminal drops terminal jobs that ended before cutoff and returns
// their ids.
func (r *InMemoryJobRepository) EvictTerminal(cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []string
	for id, j := range r.data {
		if j.IsTerminal() && j.EndedAt != nil && j.EndedAt.Before(cutoff) {
			delete(r.data, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

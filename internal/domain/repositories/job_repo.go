package repositories

import (
	"context"
	"time"

	"media-orchestrator/internal/domain/entities"
)

type JobRepository interface {
	Save(job *entities.Job)
	Get(id string) (entities.Job, bool)
	// Update applies fn under the repository lock. When fn returns an error
	// the job is left as fn left it and the error is returned.
	Update(id string, fn func(j *entities.Job) error) (entities.Job, error)
	List() []entities.Job
	CountActive() int
	EvictTerminal(cutoff time.Time) []string
}

type JobHistoryRepository interface {
	Record(ctx context.Context, record *entities.JobRecord) error
	Get(ctx context.Context, id string) (*entities.JobRecord, error)
	List(ctx context.Context, state string, limit int) ([]entities.JobRecord, error)
}

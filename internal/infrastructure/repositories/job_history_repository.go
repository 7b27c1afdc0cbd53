package repositories

import (
	"context"
	"errors"
	"fmt"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	apperrors "media-orchestrator/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jobHistoryRepository struct {
	db *gorm.DB
}

func NewJobHistoryRepository(db *gorm.DB) repositories.JobHistoryRepository {
	return &jobHistoryRepository{
		db: db,
	}
}

// Record upserts the summary so a retried write never duplicates a job.
func (r *jobHistoryRepository) Record(ctx context.Context, record *entities.JobRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to record job %s: %w", record.ID, err)
	}
	return nil
}

func (r *jobHistoryRepository) Get(ctx context.Context, id string) (*entities.JobRecord, error) {
	var rec entities.JobRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return &rec, nil
}

func (r *jobHistoryRepository) List(ctx context.Context, state string, limit int) ([]entities.JobRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Order("ended_at DESC").Limit(limit)
	if state != "" {
		q = q.Where("state = ?", state)
	}
	var out []entities.JobRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

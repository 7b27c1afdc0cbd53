package usecases

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/infrastructure/metrics"
	"media-orchestrator/internal/infrastructure/queue"
	"media-orchestrator/internal/pkg/config"
	"media-orchestrator/pkg/constants"
	apperrors "media-orchestrator/pkg/errors"
	"media-orchestrator/pkg/file"
	"media-orchestrator/pkg/helper"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadFile is one file of an upload request.
type UploadFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type UploadService interface {
	// RegisterBatch validates every file before storing any of them; one
	// invalid file rejects the whole batch.
	RegisterBatch(ctx context.Context, files []UploadFile) ([]entities.Asset, error)
	Lookup(id string) (entities.Asset, error)
	// Resolve maps ids to live assets, silently dropping unknown, expired
	// and duplicate ids. Order of first occurrence is kept.
	Resolve(ids []string) []entities.Asset
	// Acquire marks the assets as held by a job and cancels their expiry.
	// It is all or nothing.
	Acquire(ids []string) ([]entities.Asset, error)
	// Release drops one job reference; assets left unreferenced are revoked.
	Release(ids []string)
	Revoke(id string) error
	List() []entities.Asset
	Count() int
}

type uploadService struct {
	repo    repositories.AssetRepository
	storage repositories.StorageStrategy
	prober  repositories.Engine
	queue   *queue.WorkerPool
	metrics *metrics.Metrics
	logger  *zap.Logger
	cfg     config.UploadConfig

	mu sync.Mutex // serialises acquire, release and revoke
}

func NewUploadService(
	repo repositories.AssetRepository,
	storage repositories.StorageStrategy,
	prober repositories.Engine,
	q *queue.WorkerPool,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg config.UploadConfig,
) UploadService {
	return &uploadService{
		repo:    repo,
		storage: storage,
		prober:  prober,
		queue:   q,
		metrics: m,
		logger:  logger.Named("uploads"),
		cfg:     cfg,
	}
}

func assetKey(id string) string {
	return "asset:" + id
}

func (s *uploadService) validate(f UploadFile) error {
	name := strings.TrimSpace(f.Filename)
	if name == "" {
		return apperrors.ErrValidation("file name is required")
	}
	if file.MediaKind(name) == constants.MediaKindUnknown {
		return apperrors.ErrUnsupportedMedia(filepath.Base(name))
	}
	if f.Size <= 0 {
		return apperrors.ErrValidation(fmt.Sprintf("%s is empty", filepath.Base(name)))
	}
	if f.Size > s.cfg.MaxFileSize {
		return apperrors.ErrFileTooLarge(filepath.Base(name), s.cfg.MaxFileSize)
	}
	if f.Open == nil {
		return apperrors.ErrValidation(fmt.Sprintf("%s has no content", filepath.Base(name)))
	}
	return nil
}

func (s *uploadService) RegisterBatch(ctx context.Context, files []UploadFile) ([]entities.Asset, error) {
	if len(files) == 0 {
		return nil, apperrors.ErrValidation("no files uploaded")
	}
	if s.cfg.MaxFiles > 0 && len(files) > s.cfg.MaxFiles {
		return nil, apperrors.ErrValidation(fmt.Sprintf("at most %d files per upload", s.cfg.MaxFiles))
	}
	for _, f := range files {
		if err := s.validate(f); err != nil {
			return nil, err
		}
	}

	assets := make([]entities.Asset, 0, len(files))
	for _, f := range files {
		asset, err := s.store(ctx, f)
		if err != nil {
			for _, stored := range assets {
				if rerr := s.Revoke(stored.ID); rerr != nil {
					s.logger.Warn("rollback failed", zap.String("asset_id", stored.ID), zap.Error(rerr))
				}
			}
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (s *uploadService) store(ctx context.Context, f UploadFile) (entities.Asset, error) {
	src, err := f.Open()
	if err != nil {
		return entities.Asset{}, apperrors.ErrInternal(fmt.Errorf("open upload %s: %w", f.Filename, err))
	}
	defer src.Close()

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(f.Filename))
	path, n, err := s.storage.Save(io.LimitReader(src, s.cfg.MaxFileSize+1), id+ext)
	if err != nil {
		return entities.Asset{}, apperrors.ErrInternal(err)
	}
	if n > s.cfg.MaxFileSize {
		_ = s.storage.Delete(path)
		return entities.Asset{}, apperrors.ErrFileTooLarge(filepath.Base(f.Filename), s.cfg.MaxFileSize)
	}

	meta, err := s.prober.Probe(ctx, path)
	if err != nil {
		s.logger.Warn("media inspection failed, storing fallback metadata",
			zap.String("asset_id", id), zap.String("file", f.Filename), zap.Error(err))
		meta = entities.FallbackMetadata()
	}

	now := time.Now()
	asset := entities.Asset{
		ID:           id,
		OriginalName: helper.SanitizeFilename(f.Filename, id+ext),
		StoragePath:  path,
		Size:         n,
		MediaKind:    file.MediaKind(f.Filename),
		Metadata:     meta,
		UploadedAt:   now,
		ExpiresAt:    now.Add(s.cfg.AssetTTL),
	}
	s.repo.Save(asset)
	s.queue.Schedule(queue.Job{
		Key:  assetKey(id),
		Type: queue.JobAssetExpiry,
		Run:  func(context.Context) error { return s.expire(id) },
	}, s.cfg.AssetTTL)

	s.metrics.AssetsUploaded.WithLabelValues(asset.MediaKind).Inc()
	s.metrics.UploadBytes.Add(float64(n))
	s.logger.Info("asset registered",
		zap.String("asset_id", id),
		zap.String("kind", asset.MediaKind),
		zap.Int64("size", n),
		zap.Float64("duration", meta.DurationSeconds))
	return asset, nil
}

func (s *uploadService) Lookup(id string) (entities.Asset, error) {
	a, ok := s.repo.Get(id)
	if !ok || a.Expired(time.Now()) {
		return entities.Asset{}, apperrors.ErrNotFound(fmt.Errorf("asset %s", id))
	}
	return a, nil
}

func (s *uploadService) Resolve(ids []string) []entities.Asset {
	seen := make(map[string]bool, len(ids))
	out := make([]entities.Asset, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if a, err := s.Lookup(id); err == nil {
			out = append(out, a)
		}
	}
	return out
}

func (s *uploadService) Acquire(ids []string) ([]entities.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		a, ok := s.repo.Get(id)
		if !ok || a.Expired(now) {
			return nil, apperrors.ErrNotFound(fmt.Errorf("asset %s", id))
		}
	}

	out := make([]entities.Asset, 0, len(ids))
	for _, id := range ids {
		a, _ := s.repo.Update(id, func(a *entities.Asset) {
			a.Refs++
			a.ExpiresAt = time.Time{}
		})
		s.queue.Cancel(assetKey(id))
		out = append(out, a)
	}
	return out, nil
}

func (s *uploadService) Release(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		a, ok := s.repo.Update(id, func(a *entities.Asset) {
			if a.Refs > 0 {
				a.Refs--
			}
		})
		if !ok || a.Refs > 0 {
			continue
		}
		if err := s.revokeLocked(id); err != nil {
			s.logger.Warn("asset cleanup failed", zap.String("asset_id", id), zap.Error(err))
		}
	}
}

func (s *uploadService) Revoke(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revokeLocked(id)
}

func (s *uploadService) revokeLocked(id string) error {
	s.queue.Cancel(assetKey(id))
	a, ok := s.repo.Delete(id)
	if !ok {
		return nil
	}
	if err := s.storage.Delete(a.StoragePath); err != nil {
		return apperrors.ErrCannotRemove(err)
	}
	s.logger.Debug("asset revoked", zap.String("asset_id", id))
	return nil
}

// expire runs from the delay queue; assets a job picked up meanwhile stay.
func (s *uploadService) expire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.repo.Get(id)
	if !ok || a.Refs > 0 {
		return nil
	}
	s.logger.Info("asset expired unused", zap.String("asset_id", id))
	return s.revokeLocked(id)
}

func (s *uploadService) List() []entities.Asset {
	return s.repo.List()
}

func (s *uploadService) Count() int {
	return s.repo.Count()
}

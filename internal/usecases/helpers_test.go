package usecases

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/internal/infrastructure/metrics"
	"media-orchestrator/internal/infrastructure/queue"
	infrarepo "media-orchestrator/internal/infrastructure/repositories"
	"media-orchestrator/internal/infrastructure/storage"
	"media-orchestrator/internal/pkg/config"

	"go.uber.org/zap"
)

type fakeEngine struct {
	mu       sync.Mutex
	probeErr error
	start    func(ctx context.Context, req repositories.EngineRequest) (<-chan entities.EngineEvent, error)
	requests []repositories.EngineRequest
}

func (e *fakeEngine) Probe(_ context.Context, path string) (entities.MediaMetadata, error) {
	if e.probeErr != nil {
		return entities.FallbackMetadata(), e.probeErr
	}
	return entities.MediaMetadata{DurationSeconds: 10, Resolution: "1280x720", Codec: "h264"}, nil
}

func (e *fakeEngine) Start(ctx context.Context, req repositories.EngineRequest) (<-chan entities.EngineEvent, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	start := e.start
	e.mu.Unlock()
	if start == nil {
		return succeed(ctx, req)
	}
	return start(ctx, req)
}

func (e *fakeEngine) lastRequest() repositories.EngineRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requests[len(e.requests)-1]
}

func emit(events ...entities.EngineEvent) <-chan entities.EngineEvent {
	ch := make(chan entities.EngineEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func succeed(_ context.Context, req repositories.EngineRequest) (<-chan entities.EngineEvent, error) {
	if err := os.WriteFile(req.OutputPath, []byte("merged-output"), 0644); err != nil {
		return nil, err
	}
	return emit(
		entities.EngineEvent{Type: entities.EngineProgress, Progress: 50, Speed: "2.0x"},
		entities.EngineEvent{Type: entities.EngineCompleted},
	), nil
}

type testEnv struct {
	dir       string
	cfg       config.UploadConfig
	storage   *storage.LocalStorage
	assets    *infrarepo.InMemoryAssetRepository
	jobs      *infrarepo.InMemoryJobRepository
	pool      *queue.WorkerPool
	metrics   *metrics.Metrics
	events    Broadcaster
	engine    *fakeEngine
	uploads   UploadService
	manifests ManifestBuilder
	retention RetentionService
	orch      JobService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir: dir,
		cfg: config.UploadConfig{
			UploadsDir:  filepath.Join(dir, "uploads"),
			ManifestDir: filepath.Join(dir, "manifests"),
			OutputDir:   filepath.Join(dir, "outputs"),
			MaxFileSize: 1024,
			MaxFiles:    5,
			AssetTTL:    time.Hour,
		},
		assets:  infrarepo.NewInMemoryAssetRepository(),
		jobs:    infrarepo.NewInMemoryJobRepository(),
		metrics: metrics.New(),
		engine:  &fakeEngine{},
	}
	if err := os.MkdirAll(env.cfg.OutputDir, 0755); err != nil {
		t.Fatal(err)
	}
	logger := zap.NewNop()
	env.storage = storage.NewLocalStorage(env.cfg.UploadsDir)
	env.pool = queue.NewWorkerPool(2, logger)
	env.events = NewBroadcaster(64, env.metrics)
	env.uploads = NewUploadService(env.assets, env.storage, env.engine, env.pool, env.metrics, logger, env.cfg)
	env.manifests = NewManifestBuilder(env.cfg.ManifestDir, env.storage)
	env.retention = NewRetentionService(env.jobs, env.uploads, env.manifests, env.storage, env.pool, env.metrics, logger,
		[]string{env.cfg.UploadsDir, env.cfg.ManifestDir, env.cfg.OutputDir})
	env.orch = NewOrchestrator(OrchestratorDeps{
		Jobs:      env.jobs,
		Uploads:   env.uploads,
		Manifests: env.manifests,
		Engine:    env.engine,
		Storage:   env.storage,
		Events:    env.events,
		Retention: env.retention,
		Metrics:   env.metrics,
		Logger:    logger,
	}, OrchestratorConfig{
		OutputDir:     env.cfg.OutputDir,
		OutputTTL:     time.Hour,
		DownloadGrace: 20 * time.Millisecond,
		MaxConcurrent: 1,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = env.orch.Shutdown(ctx)
		env.pool.Shutdown()
	})
	return env
}

func memFile(name string, content string) UploadFile {
	return UploadFile{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}

func (env *testEnv) register(t *testing.T, names ...string) []string {
	t.Helper()
	files := make([]UploadFile, len(names))
	for i, n := range names {
		files[i] = memFile(n, "content of "+n)
	}
	assets, err := env.uploads.RegisterBatch(context.Background(), files)
	if err != nil {
		t.Fatalf("RegisterBatch: %v", err)
	}
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return ids
}

func (env *testEnv) waitTerminal(t *testing.T, id string) entities.Job {
	t.Helper()
	var job entities.Job
	waitFor(t, func() bool {
		j, err := env.orch.Get(id)
		job = j
		return err == nil && j.IsTerminal()
	})
	return job
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

var errBoom = errors.New("boom")

func zapNop() *zap.Logger {
	return zap.NewNop()
}

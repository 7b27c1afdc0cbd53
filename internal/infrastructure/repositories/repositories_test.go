package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/infrastructure/db"
	"media-orchestrator/internal/pkg/config"
	apperrors "media-orchestrator/pkg/errors"
)

func TestInMemoryAssetRepository(t *testing.T) {
	repo := NewInMemoryAssetRepository()
	repo.Save(entities.Asset{ID: "a", OriginalName: "a.mp3"})

	got, ok := repo.Get("a")
	if !ok || got.OriginalName != "a.mp3" {
		t.Fatalf("Get = %+v %v", got, ok)
	}

	updated, ok := repo.Update("a", func(a *entities.Asset) { a.Refs++ })
	if !ok || updated.Refs != 1 {
		t.Fatalf("Update = %+v %v", updated, ok)
	}
	if _, ok := repo.Update("missing", func(*entities.Asset) {}); ok {
		t.Fatal("Update of missing asset must fail")
	}

	if repo.Count() != 1 || len(repo.List()) != 1 {
		t.Fatal("unexpected count")
	}
	if _, ok := repo.Delete("a"); !ok {
		t.Fatal("Delete failed")
	}
	if _, ok := repo.Delete("a"); ok {
		t.Fatal("second Delete must report missing")
	}
}

func TestInMemoryJobRepository(t *testing.T) {
	repo := NewInMemoryJobRepository()
	j := entities.NewJob("j1", []entities.Asset{{ID: "a"}, {ID: "b"}}, entities.EncodingProfile{}, "o", "/o")
	repo.Save(j)

	snap, ok := repo.Get("j1")
	if !ok {
		t.Fatal("job not found")
	}
	snap.State = entities.JobFailed
	if again, _ := repo.Get("j1"); again.State != entities.JobCreated {
		t.Fatal("Get must return a copy")
	}

	out, err := repo.Update("j1", func(j *entities.Job) error { return j.Transition(entities.JobInitializing) })
	if err != nil || out.State != entities.JobInitializing {
		t.Fatalf("Update = %+v %v", out, err)
	}
	if _, err := repo.Update("j1", func(j *entities.Job) error { return j.Transition(entities.JobCompleted) }); err == nil {
		t.Fatal("invalid transition must surface")
	}
	if _, err := repo.Update("nope", func(*entities.Job) error { return nil }); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v", err)
	}
	if repo.CountActive() != 1 {
		t.Fatalf("active = %d", repo.CountActive())
	}
}

func TestInMemoryJobRepositoryConcurrentProgress(t *testing.T) {
	repo := NewInMemoryJobRepository()
	j := entities.NewJob("j", []entities.Asset{{ID: "a"}, {ID: "b"}}, entities.EncodingProfile{}, "o", "/o")
	_ = j.Transition(entities.JobInitializing)
	_ = j.Transition(entities.JobProcessing)
	repo.Save(j)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(p float64) {
			defer wg.Done()
			_, _ = repo.Update("j", func(j *entities.Job) error { j.SetProgress(p); return nil })
			_ = repo.List()
		}(float64(i))
	}
	wg.Wait()

	if got, _ := repo.Get("j"); got.Progress != 50 {
		t.Fatalf("progress = %v", got.Progress)
	}
}

func TestJobHistoryRepositorySQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "history.db")}
	database, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Migrate(database, cfg.Driver); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	repo := NewJobHistoryRepository(database)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	records := []*entities.JobRecord{
		{ID: "j1", State: "completed", Format: "mp4", Quality: "high", Performance: "normal", InputCount: 2, InputIDs: "a,b", CreatedAt: now.Add(-time.Minute), EndedAt: now.Add(-30 * time.Second)},
		{ID: "j2", State: "failed", Format: "mp3", Quality: "low", Performance: "eco", InputCount: 3, ErrorDetail: "Invalid data", CreatedAt: now.Add(-time.Minute), EndedAt: now},
	}
	for _, rec := range records {
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	// upsert keeps a single row
	records[0].Checksum = "abc"
	if err := repo.Record(ctx, records[0]); err != nil {
		t.Fatalf("Record upsert: %v", err)
	}

	all, err := repo.List(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != "j2" {
		t.Fatalf("List = %+v", all)
	}

	failed, err := repo.List(ctx, "failed", 0)
	if err != nil || len(failed) != 1 || failed[0].ErrorDetail != "Invalid data" {
		t.Fatalf("failed = %+v %v", failed, err)
	}

	got, err := repo.Get(ctx, "j1")
	if err != nil || got.Checksum != "abc" {
		t.Fatalf("Get = %+v %v", got, err)
	}

	_, err = repo.Get(ctx, "missing")
	var ae *apperrors.AppError
	if !errors.As(err, &ae) || ae.Code != apperrors.CodeNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestInMemoryJobRepositoryEvictTerminal(t *testing.T) {
	repo := NewInMemoryJobRepository()
	old := time.Now().Add(-2 * time.Hour)

	finished := entities.NewJob("old", nil, entities.EncodingProfile{}, "o", "/o")
	finished.State = entities.JobFailed
	finished.EndedAt = &old
	repo.Save(finished)

	recent := entities.NewJob("recent", nil, entities.EncodingProfile{}, "o", "/o")
	_ = recent.Transition(entities.JobInitializing)
	_ = recent.Transition(entities.JobFailed)
	repo.Save(recent)

	repo.Save(entities.NewJob("running", nil, entities.EncodingProfile{}, "o", "/o"))

	evicted := repo.EvictTerminal(time.Now().Add(-time.Hour))
	if len(evicted) != 1 || evicted[0] != "old" {
		t.Fatalf("evicted = %v", evicted)
	}
	if _, ok := repo.Get("old"); ok {
		t.Error("old job still present")
	}
	if len(repo.List()) != 2 {
		t.Errorf("jobs left = %d", len(repo.List()))
	}
}

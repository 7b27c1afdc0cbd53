package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	apperrors "media-orchestrator/pkg/errors"
)

// ManifestBuilder writes the engine's concat list for a job.
type ManifestBuilder interface {
	Build(jobID string, assets []entities.Asset) (string, error)
	Remove(path string) error
}

type manifestBuilder struct {
	dir     string
	storage repositories.StorageStrategy
}

func NewManifestBuilder(dir string, storage repositories.StorageStrategy) ManifestBuilder {
	return &manifestBuilder{dir: dir, storage: storage}
}

// Build lists the storage paths in submission order. Entries whose file is
// gone are skipped; fewer than two usable entries is an error.
func (b *manifestBuilder) Build(jobID string, assets []entities.Asset) (string, error) {
	var sb strings.Builder
	usable := 0
	for _, a := range assets {
		if a.StoragePath == "" || !b.storage.FileExists(a.StoragePath) {
			continue
		}
		path, err := filepath.Abs(a.StoragePath)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "file '%s'\n", escapeConcatPath(path))
		usable++
	}
	if usable < 2 {
		return "", apperrors.ErrInsufficientInputs(usable)
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", apperrors.ErrInternal(fmt.Errorf("create manifest dir: %w", err))
	}
	manifestPath := filepath.Join(b.dir, jobID+".txt")
	if err := os.WriteFile(manifestPath, []byte(sb.String()), 0644); err != nil {
		return "", apperrors.ErrInternal(fmt.Errorf("write manifest: %w", err))
	}
	return manifestPath, nil
}

func (b *manifestBuilder) Remove(path string) error {
	return b.storage.Delete(path)
}

// escapeConcatPath closes the quote, emits an escaped quote and reopens it.
func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}

package repositories

import (
	"context"
	"io"
	"os"
)

type StorageStrategy interface {
	Save(r io.Reader, filename string) (string, int64, error)
	Open(path string) (*os.File, error)
	Delete(path string) error
	FileExists(path string) bool
}

// Archiver copies a finished artifact to durable storage and returns its URL.
type Archiver interface {
	Archive(ctx context.Context, key, path string) (string, error)
}

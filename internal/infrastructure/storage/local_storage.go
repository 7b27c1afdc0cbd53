package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"media-orchestrator/internal/pkg/fileutils"
)

type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

// Save streams r into BasePath/filename through a temp file and an atomic
// rename. It returns the final path and the number of bytes written.
func (l *LocalStorage) Save(r io.Reader, filename string) (string, int64, error) {
	if err := os.MkdirAll(l.BasePath, os.ModePerm); err != nil {
		return "", 0, fmt.Errorf("create storage dir: %w", err)
	}

	finalPath := filepath.Join(l.BasePath, filepath.Base(filename))
	tmpPath := fmt.Sprintf("%s.tmp.%d", finalPath, time.Now().UnixNano())

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("write file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		// cross-device fallback
		if copyErr := fileutils.CopyFile(tmpPath, finalPath); copyErr != nil {
			os.Remove(tmpPath)
			return "", 0, fmt.Errorf("move file: %w", copyErr)
		}
		os.Remove(tmpPath)
	}

	return finalPath, n, nil
}

func (l *LocalStorage) Open(path string) (*os.File, error) {
	return os.Open(path)
}

// Delete removes path; a missing file is not an error.
func (l *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *LocalStorage) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

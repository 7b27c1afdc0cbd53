package fileutils

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// CopyFile copies src to dst and syncs dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// RemoveOlderThan deletes regular files below root last modified before
// cutoff and returns the removed paths. A missing root is not an error.
func RemoveOlderThan(root string, cutoff time.Time) ([]string, error) {
	var removed []string
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			sub, err := RemoveOlderThan(full, cutoff)
			removed = append(removed, sub...)
			if err != nil {
				return removed, err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed = append(removed, full)
		}
	}
	return removed, nil
}

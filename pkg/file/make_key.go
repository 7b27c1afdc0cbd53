package file

import (
	"path"
	"path/filepath"
)

// MakeKey builds the object key an artifact is archived under.
func MakeKey(jobID, filename string) string {
	return path.Join(jobID, filepath.Base(filename))
}

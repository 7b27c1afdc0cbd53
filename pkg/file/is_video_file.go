package file

import (
	"path/filepath"
	"strings"

	"media-orchestrator/pkg/constants"
)

var (
	videoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm", ".m4v"}
	audioExtensions = []string{".mp3", ".wav", ".m4a", ".aac", ".flac", ".ogg", ".opus"}
)

func IsVideoFile(filePath string) bool {
	return hasExt(filePath, videoExtensions)
}

func IsAudioFile(filePath string) bool {
	return hasExt(filePath, audioExtensions)
}

// MediaKind classifies a file by extension only.
func MediaKind(filePath string) string {
	switch {
	case IsVideoFile(filePath):
		return constants.MediaKindVideo
	case IsAudioFile(filePath):
		return constants.MediaKindAudio
	default:
		return constants.MediaKindUnknown
	}
}

func hasExt(filePath string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, v := range allowed {
		if ext == v {
			return true
		}
	}
	return false
}

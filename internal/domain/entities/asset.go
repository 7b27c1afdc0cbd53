package entities

import (
	"time"

	"media-orchestrator/pkg/constants"
)

type MediaMetadata struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Resolution      string  `json:"resolution"`
	Codec           string  `json:"codec"`
}

// FallbackMetadata is stored when inspection fails.
func FallbackMetadata() MediaMetadata {
	return MediaMetadata{DurationSeconds: 0, Resolution: "unknown", Codec: "unknown"}
}

// Asset is a validated, stored media file awaiting (or referenced by) jobs.
type Asset struct {
	ID           string        `json:"id"`
	OriginalName string        `json:"originalName"`
	StoragePath  string        `json:"-"`
	Size         int64         `json:"size"`
	MediaKind    string        `json:"mediaKind"`
	Metadata     MediaMetadata `json:"metadata"`
	UploadedAt   time.Time     `json:"uploadedAt"`
	ExpiresAt    time.Time     `json:"expiresAt"` // zero once a job holds it
	Refs         int           `json:"-"`
}

func (a Asset) IsVideo() bool {
	return a.MediaKind == constants.MediaKindVideo
}

// Expired reports whether an unreferenced asset has outlived its TTL.
func (a Asset) Expired(now time.Time) bool {
	return a.Refs == 0 && !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

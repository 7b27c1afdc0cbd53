package dto

import "time"

type MetadataDTO struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Resolution      string  `json:"resolution"`
	Codec           string  `json:"codec"`
}

type AssetResponse struct {
	ID           string      `json:"id"`
	OriginalName string      `json:"originalName"`
	Size         int64       `json:"size"`
	MediaKind    string      `json:"mediaKind"`
	Metadata     MetadataDTO `json:"metadata"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
